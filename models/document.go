package models

import "time"

// CandidateDocument represents the candidate_documents table.
type CandidateDocument struct {
	DocumentID   int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	CandidateID  int        `gorm:"column:candidate_id;index" json:"candidate_id"`
	DocumentType string     `gorm:"column:document_type" json:"document_type"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
}

func (CandidateDocument) TableName() string { return "candidate_documents" }

// Helper methods for upload validation

func (d *CandidateDocument) IsValidImageType() bool {
	validTypes := []string{"image/jpeg", "image/jpg", "image/png"}
	for _, validType := range validTypes {
		if d.MimeType == validType {
			return true
		}
	}
	return false
}

func (d *CandidateDocument) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"image/jpeg",
		"image/jpg",
		"image/png",
	}
	for _, validType := range validTypes {
		if d.MimeType == validType {
			return true
		}
	}
	return false
}

func (d *CandidateDocument) GetFileSizeInMB() float64 {
	return float64(d.FileSize) / (1024 * 1024)
}
