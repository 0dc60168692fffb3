package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	UploadBatchStatusUploading  = "uploading"
	UploadBatchStatusProcessing = "processing"
	UploadBatchStatusCompleted  = "completed"
	UploadBatchStatusFailed     = "failed"
)

const (
	UploadRecordTypeCandidate = "candidate"
	UploadRecordTypePrelist   = "prelist"
)

const (
	RowErrorTypeValidation = "validation"
	RowErrorTypeDuplicate  = "duplicate"
	RowErrorTypeSystem     = "system"
)

// UploadBatch tracks one candidate/prelist file upload end to end.
type UploadBatch struct {
	ID               uint           `json:"batch_id" gorm:"primaryKey;autoIncrement"`
	Reference        string         `json:"reference" gorm:"type:varchar(64);uniqueIndex;not null"`
	Filename         string         `json:"filename" gorm:"type:varchar(255);not null"`
	RecordType       string         `json:"record_type" gorm:"type:enum('candidate','prelist');not null;default:'candidate'"`
	TotalRecords     uint           `json:"total_records" gorm:"column:total_records;not null;default:0"`
	ProcessedRecords uint           `json:"processed_records" gorm:"column:processed_records;not null;default:0"`
	FailedRecords    uint           `json:"failed_records" gorm:"column:failed_records;not null;default:0"`
	Status           string         `json:"status" gorm:"type:enum('uploading','processing','completed','failed');not null;default:'uploading'"`
	ErrorMessage     *string        `json:"error_message,omitempty" gorm:"type:text"`
	UploadedBy       string         `json:"uploaded_by" gorm:"type:varchar(64);not null"`
	StartedAt        time.Time      `json:"started_at" gorm:"column:started_at;autoCreateTime"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty" gorm:"column:completed_at"`
	CreatedAt        time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`

	RowErrors []UploadRowError `json:"row_errors,omitempty" gorm:"foreignKey:BatchID"`
}

func (UploadBatch) TableName() string { return "upload_batches" }

// Terminal reports whether the batch reached a final state.
func (b *UploadBatch) Terminal() bool {
	return b.Status == UploadBatchStatusCompleted || b.Status == UploadBatchStatusFailed
}

// UploadRowError records one rejected row of a batch for operator review.
// Row numbers are spreadsheet row numbers as the uploader sees them
// (header row is row 1, first data row is row 2).
type UploadRowError struct {
	ID            uint      `json:"row_error_id" gorm:"primaryKey;autoIncrement"`
	BatchID       uint      `json:"batch_id" gorm:"column:batch_id;index;not null"`
	RowNumber     int       `json:"row_number" gorm:"column:row_number;not null"`
	JambRegNumber string    `json:"jamb_reg_number,omitempty" gorm:"column:jamb_reg_number;type:varchar(32)"`
	ErrorType     string    `json:"error_type" gorm:"type:enum('validation','duplicate','system');not null"`
	Message       string    `json:"message" gorm:"type:text;not null"`
	RawRow        string    `json:"raw_row,omitempty" gorm:"column:raw_row;type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (UploadRowError) TableName() string { return "upload_row_errors" }
