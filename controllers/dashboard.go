package controllers

import (
	"net/http"
	"strconv"

	"admissions-api/config"
	"admissions-api/models"
	"admissions-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetDashboardStats aggregates the figures shown on the admin landing page.
func GetDashboardStats(c *gin.Context) {
	var totalCandidates, registered int64
	config.DB.Model(&models.Candidate{}).Where("delete_at IS NULL").Count(&totalCandidates)
	config.DB.Model(&models.Candidate{}).Where("delete_at IS NULL AND password <> ''").Count(&registered)

	var byEntryMode []struct {
		EntryMode string `json:"entry_mode"`
		Count     int64  `json:"count"`
	}
	config.DB.Model(&models.Candidate{}).
		Select("entry_mode, COUNT(*) as count").
		Where("delete_at IS NULL").
		Group("entry_mode").
		Scan(&byEntryMode)

	var byGender []struct {
		Gender *string `json:"gender"`
		Count  int64   `json:"count"`
	}
	config.DB.Model(&models.Candidate{}).
		Select("gender, COUNT(*) as count").
		Where("delete_at IS NULL").
		Group("gender").
		Scan(&byGender)

	var byProgramme []struct {
		ProgrammeName string `json:"programme_name"`
		Count         int64  `json:"count"`
	}
	config.DB.Table("candidates").
		Select("programmes.programme_name, COUNT(*) as count").
		Joins("JOIN programmes ON programmes.programme_id = candidates.programme_id").
		Where("candidates.delete_at IS NULL").
		Group("programmes.programme_name").
		Order("count DESC").
		Limit(10).
		Scan(&byProgramme)

	var successfulPayments int64
	config.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSuccess).Count(&successfulPayments)

	var revenueStr string
	config.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.PaymentStatusSuccess).
		Scan(&revenueStr)
	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		revenue = decimal.Zero
	}

	var totalBatches, failedBatches int64
	config.DB.Model(&models.UploadBatch{}).Count(&totalBatches)
	config.DB.Model(&models.UploadBatch{}).
		Where("status = ?", models.UploadBatchStatusFailed).Count(&failedBatches)

	c.JSON(http.StatusOK, gin.H{
		"total_candidates":      totalCandidates,
		"registered_candidates": registered,
		"by_entry_mode":         byEntryMode,
		"by_gender":             byGender,
		"top_programmes":        byProgramme,
		"successful_payments":   successfulPayments,
		"total_revenue":         revenue,
		"upload_batches":        totalBatches,
		"failed_batches":        failedBatches,
	})
}

// ListAuditLogs returns recent admin actions, newest first.
func ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, total, err := services.NewAuditLogService(config.DB).List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
