package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"admissions-api/config"
	"admissions-api/models"
	"admissions-api/services"

	"github.com/gin-gonic/gin"
)

// 20 MB is generous for a prelist spreadsheet; anything larger is almost
// certainly the wrong file.
const maxUploadFileSize = 20 << 20

// UploadCandidateFile ingests a CSV/XLSX candidate or prelist file and
// returns the batch summary.
func UploadCandidateFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fileHeader.Size > maxUploadFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 20MB upload limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .csv and .xlsx files are supported"})
		return
	}

	recordType := c.DefaultPostForm("record_type", models.UploadRecordTypeCandidate)
	if recordType != models.UploadRecordTypeCandidate && recordType != models.UploadRecordTypePrelist {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_type must be 'candidate' or 'prelist'"})
		return
	}

	data, err := readUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	email, _ := c.Get("email")
	uploadedBy, _ := email.(string)

	job := services.NewCandidateImportJobService(config.DB)
	summary, err := job.Run(&services.ImportInput{
		Data:       data,
		Filename:   fileHeader.Filename,
		RecordType: recordType,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		writeImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": summary.Message,
		"summary": summary,
	})
}

// RetryUploadBatch re-runs a terminal batch with a re-supplied file.
func RetryUploadBatch(c *gin.Context) {
	batchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Retry requires the original file to be uploaded again"})
		return
	}
	if fileHeader.Size > maxUploadFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 20MB upload limit"})
		return
	}

	data, err := readUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	email, _ := c.Get("email")
	actor, _ := email.(string)

	job := services.NewCandidateImportJobService(config.DB)
	summary, err := job.Retry(uint(batchID), data, actor)
	if err != nil {
		writeImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": summary.Message,
		"summary": summary,
	})
}

// ListUploadBatches returns batch history, newest first.
func ListUploadBatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	batches, total, err := services.NewUploadBatchService(config.DB).List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list upload batches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batches": batches,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetUploadBatch returns one batch with its row errors in file order.
func GetUploadBatch(c *gin.Context) {
	batchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
		return
	}

	batch, err := services.NewUploadBatchService(config.DB).GetWithErrors(uint(batchID))
	if err != nil {
		if errors.Is(err, services.ErrUploadBatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload batch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load upload batch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

func readUploadedFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrImportInputMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is empty"})
	case errors.Is(err, services.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File contains no data rows"})
	case errors.Is(err, services.ErrMalformedFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File could not be parsed as CSV or XLSX"})
	case errors.Is(err, services.ErrUploadBatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload batch not found"})
	case errors.Is(err, services.ErrBatchNotRetryable):
		c.JSON(http.StatusConflict, gin.H{"error": "Batch is still processing and cannot be retried"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed: " + err.Error()})
	}
}
