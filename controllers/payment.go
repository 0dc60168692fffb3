package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"admissions-api/config"
	"admissions-api/models"
	"admissions-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListPaymentPurposes returns active fee lines candidates can pay for.
func ListPaymentPurposes(c *gin.Context) {
	var purposes []models.PaymentPurpose
	err := config.DB.Where("delete_at IS NULL AND is_active = ?", true).
		Order("purpose_name ASC").Find(&purposes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment purposes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purposes": purposes})
}

type PaymentPurposeRequest struct {
	PurposeName string          `json:"purpose_name" binding:"required"`
	PurposeCode string          `json:"purpose_code" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description *string         `json:"description"`
	IsActive    *bool           `json:"is_active"`
}

func CreatePaymentPurpose(c *gin.Context) {
	var req PaymentPurposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	now := time.Now()
	purpose := models.PaymentPurpose{
		PurposeName: req.PurposeName,
		PurposeCode: req.PurposeCode,
		Amount:      req.Amount,
		Description: req.Description,
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if req.IsActive != nil {
		purpose.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&purpose).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment purpose"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment purpose created", "purpose": purpose})
}

func UpdatePaymentPurpose(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purpose ID"})
		return
	}

	var purpose models.PaymentPurpose
	if err := config.DB.Where("purpose_id = ? AND delete_at IS NULL", id).
		First(&purpose).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment purpose not found"})
		return
	}

	var req PaymentPurposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"purpose_name": req.PurposeName,
		"purpose_code": req.PurposeCode,
		"amount":       req.Amount,
		"description":  req.Description,
		"update_at":    now,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := config.DB.Model(&purpose).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment purpose"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment purpose updated"})
}

type InitializePaymentRequest struct {
	PurposeID int `json:"purpose_id" binding:"required"`
}

// InitializePayment creates a pending payment for the authenticated
// candidate and starts a hosted checkout with the gateway. The amount is
// always taken from the purpose record, never from the client.
func InitializePayment(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}
	if candidate.Email == nil || *candidate.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Add an email address to your profile before paying"})
		return
	}

	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var purpose models.PaymentPurpose
	if err := config.DB.Where("purpose_id = ? AND delete_at IS NULL AND is_active = ?", req.PurposeID, true).
		First(&purpose).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment purpose not found"})
		return
	}

	// One successful payment per purpose per candidate.
	var paid int64
	config.DB.Model(&models.Payment{}).
		Where("candidate_id = ? AND purpose_id = ? AND status = ?",
			candidate.CandidateID, purpose.PurposeID, models.PaymentStatusSuccess).
		Count(&paid)
	if paid > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "This fee has already been paid"})
		return
	}

	now := time.Now()
	payment := models.Payment{
		Reference:   uuid.NewString(),
		CandidateID: candidate.CandidateID,
		PurposeID:   purpose.PurposeID,
		Amount:      purpose.Amount,
		Status:      models.PaymentStatusPending,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	result, err := services.NewPaymentGateway().Initialize(*candidate.Email, payment.Reference, payment.Amount)
	if err != nil {
		if errors.Is(err, services.ErrGatewayNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment":           payment,
		"authorization_url": result.AuthorizationURL,
		"access_code":       result.AccessCode,
	})
}

// VerifyPayment confirms a payment's final state with the gateway and
// updates the local record. Verification is idempotent.
func VerifyPayment(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	reference := c.Param("reference")
	var payment models.Payment
	if err := config.DB.Preload("Purpose").
		Where("reference = ? AND candidate_id = ?", reference, candidate.CandidateID).
		First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if payment.Status == models.PaymentStatusSuccess {
		c.JSON(http.StatusOK, gin.H{"message": "Payment already confirmed", "payment": payment})
		return
	}

	result, err := services.NewPaymentGateway().Verify(reference)
	if err != nil {
		if errors.Is(err, services.ErrGatewayNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error: " + err.Error()})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	switch result.Status {
	case "success":
		updates["status"] = models.PaymentStatusSuccess
		updates["gateway_ref"] = result.GatewayRef
		paidAt := now
		if t, err := time.Parse(time.RFC3339, result.PaidAt); err == nil {
			paidAt = t
		}
		updates["paid_at"] = paidAt
	case "failed", "abandoned":
		updates["status"] = models.PaymentStatusFailed
		updates["gateway_ref"] = result.GatewayRef
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Payment is still pending", "payment": payment})
		return
	}

	if err := config.DB.Model(&payment).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	if updates["status"] == models.PaymentStatusSuccess {
		services.NewNotificationService().SendPaymentReceipt(candidate, &payment, payment.Purpose.PurposeName)
		c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed", "payment": payment})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment failed at the gateway", "payment": payment})
}

// ListMyPayments returns the authenticated candidate's payment history.
func ListMyPayments(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var payments []models.Payment
	err := config.DB.Preload("Purpose").
		Where("candidate_id = ?", candidate.CandidateID).
		Order("create_at DESC").Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ListPayments returns payments for the back office, with filters.
func ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := config.DB.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if purposeID := c.Query("purpose_id"); purposeID != "" {
		query = query.Where("purpose_id = ?", purposeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payments"})
		return
	}

	var payments []models.Payment
	err := query.Preload("Purpose").Preload("Candidate").
		Order("create_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
