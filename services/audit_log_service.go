package services

import (
	"log"

	"admissions-api/config"
	"admissions-api/models"

	"gorm.io/gorm"
)

// AuditLogger records admin actions. Implementations must be
// fire-and-forget: a failed audit write never fails the caller.
type AuditLogger interface {
	Record(actor, action, target, detail string)
}

type AuditLogService struct {
	db *gorm.DB
}

func NewAuditLogService(db *gorm.DB) *AuditLogService {
	if db == nil {
		db = config.DB
	}
	return &AuditLogService{db: db}
}

func (s *AuditLogService) Record(actor, action, target, detail string) {
	entry := &models.AuditLog{
		Actor:  actor,
		Action: action,
		Target: target,
		Detail: detail,
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Printf("audit log write failed (%s %s): %v", action, target, err)
	}
}

func (s *AuditLogService) List(limit, offset int) ([]models.AuditLog, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
