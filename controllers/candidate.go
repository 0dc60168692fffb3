package controllers

import (
	"net/http"
	"time"

	"admissions-api/config"
	"admissions-api/models"
	"admissions-api/services"
	"admissions-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CandidateRegisterRequest struct {
	JambRegNumber string `json:"jamb_reg_number" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required"`
	Password      string `json:"password" binding:"required,min=8"`
}

// RegisterCandidate activates a prelisted candidate account. The record
// must already exist from a prelist import and must not have a password set.
func RegisterCandidate(c *gin.Context) {
	var req CandidateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateJambRegNumber(req.JambRegNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JAMB registration number"})
		return
	}

	var candidate models.Candidate
	err := config.DB.Where("jamb_reg_number = ? AND delete_at IS NULL", req.JambRegNumber).
		First(&candidate).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration number not found. Contact the admissions office."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up candidate"})
		return
	}

	if candidate.Password != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Account already registered. Please log in."})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"email":     req.Email,
		"phone":     req.Phone,
		"password":  hashed,
		"update_at": now,
	}
	if err := config.DB.Model(&candidate).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	candidate.Email = &req.Email
	candidate.Phone = &req.Phone
	services.NewNotificationService().SendWelcome(&candidate)

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Registration successful. You can now log in.",
		"candidate": candidate,
	})
}

type BiodataRequest struct {
	Surname       string  `json:"surname" binding:"required"`
	FirstName     string  `json:"first_name" binding:"required"`
	MiddleName    *string `json:"middle_name"`
	Gender        string  `json:"gender" binding:"required,oneof=male female"`
	DateOfBirth   string  `json:"date_of_birth" binding:"required"`
	StateOfOrigin string  `json:"state_of_origin" binding:"required"`
	LGA           string  `json:"lga" binding:"required"`
	Address       string  `json:"address" binding:"required"`
}

// UpdateBiodata completes the biodata section of the candidate profile.
func UpdateBiodata(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var req BiodataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
		return
	}
	if dob.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth cannot be in the future"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"surname":           req.Surname,
		"first_name":        req.FirstName,
		"middle_name":       req.MiddleName,
		"gender":            req.Gender,
		"date_of_birth":     dob,
		"state_of_origin":   req.StateOfOrigin,
		"lga":               req.LGA,
		"address":           req.Address,
		"biodata_completed": true,
		"update_at":         now,
	}
	if err := config.DB.Model(candidate).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update biodata"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Biodata updated successfully"})
}

type EducationRequest struct {
	Subject1  *string `json:"subject1"`
	Score1    *int    `json:"score1" binding:"omitempty,min=0,max=100"`
	Subject2  *string `json:"subject2"`
	Score2    *int    `json:"score2" binding:"omitempty,min=0,max=100"`
	Subject3  *string `json:"subject3"`
	Score3    *int    `json:"score3" binding:"omitempty,min=0,max=100"`
	Subject4  *string `json:"subject4"`
	Score4    *int    `json:"score4" binding:"omitempty,min=0,max=100"`
	Aggregate *int    `json:"aggregate" binding:"omitempty,min=0,max=400"`
}

// UpdateEducation completes the education section. Imported JAMB scores
// are kept; candidates can only fill gaps, not overwrite existing scores.
func UpdateEducation(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record models.EducationRecord
	err := config.DB.Where("candidate_id = ?", candidate.CandidateID).First(&record).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load education record"})
		return
	}
	existing := err == nil

	now := time.Now()
	if !existing {
		record = models.EducationRecord{
			CandidateID: candidate.CandidateID,
			Subject1:    req.Subject1, Score1: req.Score1,
			Subject2: req.Subject2, Score2: req.Score2,
			Subject3: req.Subject3, Score3: req.Score3,
			Subject4: req.Subject4, Score4: req.Score4,
			Aggregate: req.Aggregate,
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		if err := config.DB.Create(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save education record"})
			return
		}
	} else {
		fillSubject(&record.Subject1, req.Subject1)
		fillScore(&record.Score1, req.Score1)
		fillSubject(&record.Subject2, req.Subject2)
		fillScore(&record.Score2, req.Score2)
		fillSubject(&record.Subject3, req.Subject3)
		fillScore(&record.Score3, req.Score3)
		fillSubject(&record.Subject4, req.Subject4)
		fillScore(&record.Score4, req.Score4)
		fillScore(&record.Aggregate, req.Aggregate)
		record.UpdateAt = &now
		if err := config.DB.Save(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save education record"})
			return
		}
	}

	if err := config.DB.Model(candidate).Updates(map[string]interface{}{
		"education_completed": true,
		"update_at":           now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Education record updated successfully", "education": record})
}

type NextOfKinRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// UpdateNextOfKin completes the next-of-kin section.
func UpdateNextOfKin(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var req NextOfKinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if err := config.DB.Model(candidate).Updates(map[string]interface{}{
		"next_of_kin_name":      req.Name,
		"next_of_kin_phone":     req.Phone,
		"next_of_kin_completed": true,
		"update_at":             now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update next of kin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Next of kin updated successfully"})
}

type SponsorRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// UpdateSponsor completes the sponsor section.
func UpdateSponsor(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var req SponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if err := config.DB.Model(candidate).Updates(map[string]interface{}{
		"sponsor_name":      req.Name,
		"sponsor_phone":     req.Phone,
		"sponsor_completed": true,
		"update_at":         now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sponsor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sponsor updated successfully"})
}

type ProgrammeChoiceRequest struct {
	ProgrammeID int `json:"programme_id" binding:"required"`
}

// ChooseProgramme sets or changes the candidate's programme choice.
func ChooseProgramme(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var req ProgrammeChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var programme models.Programme
	if err := config.DB.Where("programme_id = ? AND delete_at IS NULL", req.ProgrammeID).
		First(&programme).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Programme not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(candidate).Updates(map[string]interface{}{
		"programme_id": req.ProgrammeID,
		"update_at":    now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update programme choice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Programme choice updated", "programme": programme})
}

// GetRegistrationStatus summarizes profile completion for the dashboard.
func GetRegistrationStatus(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var documents int64
	config.DB.Model(&models.CandidateDocument{}).
		Where("candidate_id = ? AND delete_at IS NULL", candidate.CandidateID).
		Count(&documents)

	var paid int64
	config.DB.Model(&models.Payment{}).
		Where("candidate_id = ? AND status = ?", candidate.CandidateID, models.PaymentStatusSuccess).
		Count(&paid)

	c.JSON(http.StatusOK, gin.H{
		"jamb_reg_number":       candidate.JambRegNumber,
		"biodata_completed":     candidate.BiodataCompleted,
		"education_completed":   candidate.EducationCompleted,
		"next_of_kin_completed": candidate.NextOfKinCompleted,
		"sponsor_completed":     candidate.SponsorCompleted,
		"programme_chosen":      candidate.ProgrammeID != nil,
		"documents_uploaded":    documents,
		"payments_made":         paid,
	})
}

// currentCandidate loads the authenticated candidate or writes an error
// response and returns ok=false.
func currentCandidate(c *gin.Context) (*models.Candidate, bool) {
	userID, _ := c.Get("userID")

	var candidate models.Candidate
	if err := config.DB.Where("candidate_id = ? AND delete_at IS NULL", userID).
		First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return nil, false
	}
	return &candidate, true
}

func fillSubject(dst **string, src *string) {
	if (*dst == nil || **dst == "") && src != nil && *src != "" {
		*dst = src
	}
}

func fillScore(dst **int, src *int) {
	if *dst == nil && src != nil {
		*dst = src
	}
}
