package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"admissions-api/config"
	"admissions-api/middleware"
	"admissions-api/models"
	"admissions-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CandidateLoginRequest struct {
	JambRegNumber string `json:"jamb_reg_number" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

// AdminLogin authenticates a back-office user.
func AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.AdminUser
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := generateToken(user.UserID, user.Email, user.RoleID, middleware.ActorAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    user,
		"message": "Login successful",
	})
}

// CandidateLogin authenticates a candidate by registration number.
func CandidateLogin(c *gin.Context) {
	var req CandidateLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var candidate models.Candidate
	if err := config.DB.Where("jamb_reg_number = ? AND delete_at IS NULL", req.JambRegNumber).
		First(&candidate).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid registration number or password"})
		return
	}

	if candidate.Password == "" || !utils.CheckPasswordHash(req.Password, candidate.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid registration number or password"})
		return
	}

	token, err := generateToken(candidate.CandidateID, candidate.JambRegNumber, 0, middleware.ActorCandidate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"candidate": candidate,
		"message":   "Login successful",
	})
}

// GetProfile returns the authenticated actor's record.
func GetProfile(c *gin.Context) {
	userID, _ := c.Get("userID")
	actor, _ := c.Get("actor")

	if actor == middleware.ActorCandidate {
		var candidate models.Candidate
		if err := config.DB.Preload("Programme").Preload("Education").
			Where("candidate_id = ?", userID).
			First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"candidate": candidate})
		return
	}

	var user models.AdminUser
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword handles a candidate or admin password change.
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	actor, _ := c.Get("actor")
	now := time.Now()

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if actor == middleware.ActorCandidate {
		var candidate models.Candidate
		if err := config.DB.Where("candidate_id = ?", userID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
			return
		}
		if !utils.CheckPasswordHash(req.CurrentPassword, candidate.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
		candidate.Password = hashed
		candidate.UpdateAt = &now
		if err := config.DB.Save(&candidate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
		return
	}

	var user models.AdminUser
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}
	user.Password = hashed
	user.UpdateAt = &now
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func generateToken(userID int, email string, roleID int, actor string) (string, error) {
	expiryHours := 24
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			expiryHours = parsed
		}
	}

	claims := middleware.Claims{
		UserID: userID,
		Email:  email,
		RoleID: roleID,
		Actor:  actor,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
