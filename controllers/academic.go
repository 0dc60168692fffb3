package controllers

import (
	"net/http"
	"strconv"
	"time"

	"admissions-api/config"
	"admissions-api/models"

	"github.com/gin-gonic/gin"
)

// ListFaculties returns the faculty tree with departments and programmes.
// Public: the registration form needs it before login.
func ListFaculties(c *gin.Context) {
	var faculties []models.Faculty
	err := config.DB.Where("delete_at IS NULL").
		Preload("Departments", "delete_at IS NULL").
		Preload("Departments.Programmes", "delete_at IS NULL AND is_active = ?", true).
		Order("faculty_name ASC").
		Find(&faculties).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list faculties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"faculties": faculties})
}

// ListProgrammes returns active programmes, optionally filtered by department.
func ListProgrammes(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL AND is_active = ?", true)
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var programmes []models.Programme
	if err := query.Preload("Department").Order("programme_name ASC").
		Find(&programmes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list programmes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"programmes": programmes})
}

type FacultyRequest struct {
	FacultyName string `json:"faculty_name" binding:"required"`
	FacultyCode string `json:"faculty_code" binding:"required"`
}

func CreateFaculty(c *gin.Context) {
	var req FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	faculty := models.Faculty{
		FacultyName: req.FacultyName,
		FacultyCode: req.FacultyCode,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&faculty).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create faculty"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Faculty created", "faculty": faculty})
}

func UpdateFaculty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid faculty ID"})
		return
	}

	var faculty models.Faculty
	if err := config.DB.Where("faculty_id = ? AND delete_at IS NULL", id).
		First(&faculty).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Faculty not found"})
		return
	}

	var req FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&faculty).Updates(map[string]interface{}{
		"faculty_name": req.FacultyName,
		"faculty_code": req.FacultyCode,
		"update_at":    now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update faculty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Faculty updated"})
}

func DeleteFaculty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid faculty ID"})
		return
	}

	var count int64
	config.DB.Model(&models.Department{}).
		Where("faculty_id = ? AND delete_at IS NULL", id).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Faculty still has departments"})
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Faculty{}).
		Where("faculty_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete faculty"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Faculty not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Faculty deleted"})
}

type DepartmentRequest struct {
	FacultyID      int    `json:"faculty_id" binding:"required"`
	DepartmentName string `json:"department_name" binding:"required"`
	DepartmentCode string `json:"department_code" binding:"required"`
}

func CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var faculty models.Faculty
	if err := config.DB.Where("faculty_id = ? AND delete_at IS NULL", req.FacultyID).
		First(&faculty).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faculty not found"})
		return
	}

	now := time.Now()
	department := models.Department{
		FacultyID:      req.FacultyID,
		DepartmentName: req.DepartmentName,
		DepartmentCode: req.DepartmentCode,
		CreateAt:       &now,
		UpdateAt:       &now,
	}
	if err := config.DB.Create(&department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Department created", "department": department})
}

func UpdateDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var department models.Department
	if err := config.DB.Where("department_id = ? AND delete_at IS NULL", id).
		First(&department).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&department).Updates(map[string]interface{}{
		"faculty_id":      req.FacultyID,
		"department_name": req.DepartmentName,
		"department_code": req.DepartmentCode,
		"update_at":       now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update department"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department updated"})
}

func DeleteDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var count int64
	config.DB.Model(&models.Programme{}).
		Where("department_id = ? AND delete_at IS NULL", id).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Department still has programmes"})
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Department{}).
		Where("department_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete department"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

type ProgrammeRequest struct {
	DepartmentID  int    `json:"department_id" binding:"required"`
	ProgrammeName string `json:"programme_name" binding:"required"`
	ProgrammeCode string `json:"programme_code" binding:"required"`
	CutoffMark    *int   `json:"cutoff_mark" binding:"omitempty,min=0,max=400"`
	IsActive      *bool  `json:"is_active"`
}

func CreateProgramme(c *gin.Context) {
	var req ProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var department models.Department
	if err := config.DB.Where("department_id = ? AND delete_at IS NULL", req.DepartmentID).
		First(&department).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department not found"})
		return
	}

	now := time.Now()
	programme := models.Programme{
		DepartmentID:  req.DepartmentID,
		ProgrammeName: req.ProgrammeName,
		ProgrammeCode: req.ProgrammeCode,
		CutoffMark:    req.CutoffMark,
		IsActive:      true,
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	if req.IsActive != nil {
		programme.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&programme).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create programme"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Programme created", "programme": programme})
}

func UpdateProgramme(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid programme ID"})
		return
	}

	var programme models.Programme
	if err := config.DB.Where("programme_id = ? AND delete_at IS NULL", id).
		First(&programme).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Programme not found"})
		return
	}

	var req ProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"department_id":  req.DepartmentID,
		"programme_name": req.ProgrammeName,
		"programme_code": req.ProgrammeCode,
		"cutoff_mark":    req.CutoffMark,
		"update_at":      now,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := config.DB.Model(&programme).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update programme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Programme updated"})
}

func DeleteProgramme(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid programme ID"})
		return
	}

	var count int64
	config.DB.Model(&models.Candidate{}).
		Where("programme_id = ? AND delete_at IS NULL", id).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Programme still has candidates"})
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Programme{}).
		Where("programme_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete programme"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Programme not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Programme deleted"})
}
