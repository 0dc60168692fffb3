package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"admissions-api/config"
	"admissions-api/models"
	"admissions-api/services"

	"github.com/gin-gonic/gin"
)

// ListCandidates returns a filtered, paginated candidate listing for the
// back office.
func ListCandidates(c *gin.Context) {
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

	query := config.DB.Model(&models.Candidate{}).Where("delete_at IS NULL")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"jamb_reg_number LIKE ? OR surname LIKE ? OR first_name LIKE ?",
			like, like, like,
		)
	}
	if gender := c.Query("gender"); gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if state := c.Query("state_of_origin"); state != "" {
		query = query.Where("state_of_origin = ?", state)
	}
	if entryMode := c.Query("entry_mode"); entryMode != "" {
		query = query.Where("entry_mode = ?", entryMode)
	}
	if programmeID := c.Query("programme_id"); programmeID != "" {
		query = query.Where("programme_id = ?", programmeID)
	}
	if registered := c.Query("registered"); registered == "true" {
		query = query.Where("password <> ''")
	} else if registered == "false" {
		query = query.Where("password = ''")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count candidates"})
		return
	}

	var candidates []models.Candidate
	err := query.Preload("Programme").
		Order("surname ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list candidates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetCandidate returns one candidate with education, programme, documents
// and payments.
func GetCandidate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := config.DB.Preload("Programme").Preload("Education").
		Where("candidate_id = ? AND delete_at IS NULL", id).
		First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	var documents []models.CandidateDocument
	config.DB.Where("candidate_id = ? AND delete_at IS NULL", id).Find(&documents)

	var payments []models.Payment
	config.DB.Preload("Purpose").Where("candidate_id = ?", id).
		Order("create_at DESC").Find(&payments)

	c.JSON(http.StatusOK, gin.H{
		"candidate": candidate,
		"documents": documents,
		"payments":  payments,
	})
}

type AdminCandidateUpdateRequest struct {
	Surname       *string `json:"surname"`
	FirstName     *string `json:"first_name"`
	MiddleName    *string `json:"middle_name"`
	Gender        *string `json:"gender" binding:"omitempty,oneof=male female"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	StateOfOrigin *string `json:"state_of_origin"`
	LGA           *string `json:"lga"`
	Address       *string `json:"address"`
	EntryMode     *string `json:"entry_mode" binding:"omitempty,oneof=utme direct_entry"`
	ProgrammeID   *int    `json:"programme_id"`
}

// UpdateCandidate applies a partial back-office correction to a candidate.
func UpdateCandidate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := config.DB.Where("candidate_id = ? AND delete_at IS NULL", id).
		First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	var req AdminCandidateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Surname != nil {
		updates["surname"] = *req.Surname
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.MiddleName != nil {
		updates["middle_name"] = *req.MiddleName
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.StateOfOrigin != nil {
		updates["state_of_origin"] = *req.StateOfOrigin
	}
	if req.LGA != nil {
		updates["lga"] = *req.LGA
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.EntryMode != nil {
		updates["entry_mode"] = *req.EntryMode
	}
	if req.ProgrammeID != nil {
		var programme models.Programme
		if err := config.DB.Where("programme_id = ? AND delete_at IS NULL", *req.ProgrammeID).
			First(&programme).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Programme not found"})
			return
		}
		updates["programme_id"] = *req.ProgrammeID
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}
	updates["update_at"] = time.Now()

	if err := config.DB.Model(&candidate).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update candidate"})
		return
	}

	email, _ := c.Get("email")
	actor, _ := email.(string)
	services.NewAuditLogService(config.DB).Record(actor, "candidate_update",
		candidate.JambRegNumber, fmt.Sprintf("%d field(s) changed", len(updates)-1))

	c.JSON(http.StatusOK, gin.H{"message": "Candidate updated successfully"})
}

// DeleteCandidate soft-deletes a candidate.
func DeleteCandidate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := config.DB.Where("candidate_id = ? AND delete_at IS NULL", id).
		First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&candidate).Updates(map[string]interface{}{
		"delete_at": now,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete candidate"})
		return
	}

	email, _ := c.Get("email")
	actor, _ := email.(string)
	services.NewAuditLogService(config.DB).Record(actor, "candidate_delete",
		candidate.JambRegNumber, "")

	c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted successfully"})
}
