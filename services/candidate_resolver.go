package services

import (
	"errors"
	"fmt"
	"time"

	"admissions-api/config"
	"admissions-api/models"

	"gorm.io/gorm"
)

const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeRejected = "rejected"
)

// RowDisposition is the per-row result of the dedupe/create step.
type RowDisposition struct {
	Outcome   string
	ErrorType string
	Message   string
}

// CandidateStore is the relational boundary the ingestion pipeline needs:
// lookup by natural key and a transactional insert. The pipeline depends
// on nothing else about the database.
type CandidateStore interface {
	FindByRegNumber(regNumber string) (*models.Candidate, error)
	CreateWithEducation(candidate *models.Candidate, education *models.EducationRecord) error
}

// CandidateResolver decides create vs reject per accepted row. The JAMB
// registration number is the natural key: a row whose key already exists
// is always rejected as a duplicate, never silently merged.
type CandidateResolver struct {
	store CandidateStore
}

func NewCandidateResolver(store CandidateStore) *CandidateResolver {
	return &CandidateResolver{store: store}
}

// Resolve looks up the row's natural key and creates the candidate when it
// is unseen. Storage failures are reported as system errors on this row
// only; the caller continues with the rest of the batch.
func (r *CandidateResolver) Resolve(row *CandidateRow) RowDisposition {
	existing, err := r.store.FindByRegNumber(row.JambRegNumber)
	if err != nil {
		return RowDisposition{
			Outcome:   OutcomeRejected,
			ErrorType: models.RowErrorTypeSystem,
			Message:   fmt.Sprintf("lookup failed: %v", err),
		}
	}
	if existing != nil {
		return RowDisposition{
			Outcome:   OutcomeRejected,
			ErrorType: models.RowErrorTypeDuplicate,
			Message:   fmt.Sprintf("candidate with registration number %s already exists", row.JambRegNumber),
		}
	}

	candidate, education := buildCandidate(row)
	if err := r.store.CreateWithEducation(candidate, education); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent batch; the unique index is the backstop.
			return RowDisposition{
				Outcome:   OutcomeRejected,
				ErrorType: models.RowErrorTypeDuplicate,
				Message:   fmt.Sprintf("candidate with registration number %s already exists", row.JambRegNumber),
			}
		}
		return RowDisposition{
			Outcome:   OutcomeRejected,
			ErrorType: models.RowErrorTypeSystem,
			Message:   fmt.Sprintf("insert failed: %v", err),
		}
	}
	return RowDisposition{Outcome: OutcomeCreated}
}

func buildCandidate(row *CandidateRow) (*models.Candidate, *models.EducationRecord) {
	now := time.Now()
	candidate := &models.Candidate{
		JambRegNumber: row.JambRegNumber,
		Surname:       row.Surname,
		FirstName:     row.FirstName,
		MiddleName:    optionalString(row.MiddleName),
		Gender:        optionalString(row.Gender),
		DateOfBirth:   row.DateOfBirth,
		Email:         optionalString(row.Email),
		Phone:         optionalString(row.Phone),
		StateOfOrigin: optionalString(row.StateOfOrigin),
		LGA:           optionalString(row.LGA),
		Address:       optionalString(row.Address),
		EntryMode:     row.EntryMode,
		CreateAt:      &now,
		UpdateAt:      &now,
	}

	// Score columns only become an education record on the scored (UTME)
	// admission path; direct-entry candidates carry no JAMB scores.
	if row.EntryMode != models.EntryModeUTME || !row.HasScores() {
		return candidate, nil
	}

	education := &models.EducationRecord{
		Aggregate: row.Aggregate,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	subjects := []**string{&education.Subject1, &education.Subject2, &education.Subject3, &education.Subject4}
	scores := []**int{&education.Score1, &education.Score2, &education.Score3, &education.Score4}
	for i := 0; i < 4; i++ {
		*subjects[i] = optionalString(row.Subjects[i])
		*scores[i] = row.Scores[i]
	}
	return candidate, education
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// gormCandidateStore is the production CandidateStore.
type gormCandidateStore struct {
	db *gorm.DB
}

func NewGormCandidateStore(db *gorm.DB) CandidateStore {
	if db == nil {
		db = config.DB
	}
	return &gormCandidateStore{db: db}
}

func (s *gormCandidateStore) FindByRegNumber(regNumber string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := s.db.Where("jamb_reg_number = ? AND delete_at IS NULL", regNumber).First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// CreateWithEducation inserts the candidate and its optional education
// record in one transaction, so a failure mid-write never leaves a
// half-written pair. Each row gets its own transaction; the batch as a
// whole is deliberately not atomic.
func (s *gormCandidateStore) CreateWithEducation(candidate *models.Candidate, education *models.EducationRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(candidate).Error; err != nil {
			return err
		}
		if education != nil {
			education.CandidateID = candidate.CandidateID
			if err := tx.Create(education).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
