package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"admissions-api/config"
	"admissions-api/middleware"
	"admissions-api/models"
	"admissions-api/utils"

	"github.com/gin-gonic/gin"
)

const maxDocumentSize = 5 << 20 // 5 MB

var documentTypes = map[string]bool{
	"passport_photo":    true,
	"jamb_result":       true,
	"birth_certificate": true,
	"olevel_result":     true,
	"state_of_origin":   true,
	"other":             true,
}

func uploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// UploadDocument stores one candidate document on local disk and records it.
// Re-uploading a document type replaces the previous file.
func UploadDocument(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	documentType := c.PostForm("document_type")
	if !documentTypes[documentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document_type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fileHeader.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 5MB limit"})
		return
	}

	doc := models.CandidateDocument{
		CandidateID:  candidate.CandidateID,
		DocumentType: documentType,
		OriginalName: fileHeader.Filename,
		FileSize:     fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
	}

	if documentType == "passport_photo" {
		if !doc.IsValidImageType() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passport photo must be a JPEG or PNG image"})
			return
		}
	} else if !doc.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document must be a PDF, JPEG or PNG file"})
		return
	}

	dir := filepath.Join(uploadDir(), strconv.Itoa(candidate.CandidateID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	storedName := utils.GenerateUniqueFilename(dir, fileHeader.Filename)
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()
	doc.StoredPath = storedPath
	doc.UploadedAt = now
	doc.CreateAt = now
	doc.UpdateAt = now

	// Supersede any earlier upload of the same type.
	var previous []models.CandidateDocument
	config.DB.Where("candidate_id = ? AND document_type = ? AND delete_at IS NULL",
		candidate.CandidateID, documentType).Find(&previous)

	if err := config.DB.Create(&doc).Error; err != nil {
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document record"})
		return
	}

	for _, old := range previous {
		config.DB.Model(&old).Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		})
		os.Remove(old.StoredPath)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Document uploaded successfully", "document": doc})
}

// ListMyDocuments returns the candidate's current documents.
func ListMyDocuments(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	var documents []models.CandidateDocument
	err := config.DB.Where("candidate_id = ? AND delete_at IS NULL", candidate.CandidateID).
		Order("uploaded_at DESC").Find(&documents).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// DownloadDocument streams a stored document. Candidates can only download
// their own files; admins can download any.
func DownloadDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	var doc models.CandidateDocument
	if err := config.DB.Where("document_id = ? AND delete_at IS NULL", id).
		First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	actor, _ := c.Get("actor")
	if actor == middleware.ActorCandidate {
		userID, _ := c.Get("userID")
		if ownerID, ok := userID.(int); !ok || ownerID != doc.CandidateID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	if _, err := os.Stat(doc.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stored file is missing"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.OriginalName+`"`)
	c.Header("Content-Type", doc.MimeType)
	c.File(doc.StoredPath)
}

// DeleteDocument soft-deletes a candidate's own document and removes the file.
func DeleteDocument(c *gin.Context) {
	candidate, ok := currentCandidate(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	var doc models.CandidateDocument
	if err := config.DB.Where("document_id = ? AND candidate_id = ? AND delete_at IS NULL",
		id, candidate.CandidateID).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&doc).Updates(map[string]interface{}{
		"delete_at": now,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	os.Remove(doc.StoredPath)

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
