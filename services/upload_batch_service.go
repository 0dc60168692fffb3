package services

import (
	"errors"

	"admissions-api/config"
	"admissions-api/models"

	"gorm.io/gorm"
)

var ErrUploadBatchNotFound = errors.New("upload batch not found")

// BatchStore is the persistence boundary for batch tracking records and
// their per-row errors.
type BatchStore interface {
	Create(batch *models.UploadBatch) error
	Update(batchID uint, updates map[string]interface{}) error
	GetByID(batchID uint) (*models.UploadBatch, error)
	BulkInsertRowErrors(rowErrors []models.UploadRowError) error
	ClearRowErrors(batchID uint) error
}

type UploadBatchService struct {
	db *gorm.DB
}

func NewUploadBatchService(db *gorm.DB) *UploadBatchService {
	if db == nil {
		db = config.DB
	}
	return &UploadBatchService{db: db}
}

func (s *UploadBatchService) Create(batch *models.UploadBatch) error {
	return s.db.Create(batch).Error
}

func (s *UploadBatchService) Update(batchID uint, updates map[string]interface{}) error {
	res := s.db.Model(&models.UploadBatch{}).Where("id = ?", batchID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUploadBatchNotFound
	}
	return nil
}

func (s *UploadBatchService) GetByID(batchID uint) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := s.db.Where("id = ?", batchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// GetWithErrors loads a batch together with its row errors in file order.
func (s *UploadBatchService) GetWithErrors(batchID uint) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	err := s.db.Preload("RowErrors", func(db *gorm.DB) *gorm.DB {
		return db.Order("row_number ASC")
	}).Where("id = ?", batchID).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (s *UploadBatchService) List(limit, offset int) ([]models.UploadBatch, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&models.UploadBatch{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var batches []models.UploadBatch
	err := s.db.Order("started_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&batches).Error
	if err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// BulkInsertRowErrors persists all accumulated row errors in one
// statement, after the row loop, so there is no partial-error-write state.
func (s *UploadBatchService) BulkInsertRowErrors(rowErrors []models.UploadRowError) error {
	if len(rowErrors) == 0 {
		return nil
	}
	return s.db.Create(&rowErrors).Error
}

func (s *UploadBatchService) ClearRowErrors(batchID uint) error {
	return s.db.Where("batch_id = ?", batchID).Delete(&models.UploadRowError{}).Error
}
