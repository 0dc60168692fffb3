package services

import (
	"errors"
	"testing"

	"admissions-api/models"

	"gorm.io/gorm"
)

// fakeCandidateStore is an in-memory CandidateStore keyed by registration
// number. It stands in for the relational table boundary in tests.
type fakeCandidateStore struct {
	candidates map[string]*models.Candidate
	education  map[string]*models.EducationRecord
	nextID     int

	findErr   error
	createErr error
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{
		candidates: make(map[string]*models.Candidate),
		education:  make(map[string]*models.EducationRecord),
	}
}

func (s *fakeCandidateStore) FindByRegNumber(regNumber string) (*models.Candidate, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if c, ok := s.candidates[regNumber]; ok {
		return c, nil
	}
	return nil, nil
}

func (s *fakeCandidateStore) CreateWithEducation(candidate *models.Candidate, education *models.EducationRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.candidates[candidate.JambRegNumber]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.nextID++
	candidate.CandidateID = s.nextID
	s.candidates[candidate.JambRegNumber] = candidate
	if education != nil {
		education.CandidateID = candidate.CandidateID
		s.education[candidate.JambRegNumber] = education
	}
	return nil
}

func (s *fakeCandidateStore) seed(regNumber string) {
	s.nextID++
	s.candidates[regNumber] = &models.Candidate{
		CandidateID:   s.nextID,
		JambRegNumber: regNumber,
		Surname:       "EXISTING",
		FirstName:     "Candidate",
	}
}

func acceptedRow(t *testing.T, fields map[string]string) *CandidateRow {
	t.Helper()
	row, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if reasons != nil {
		t.Fatalf("fixture row rejected: %v", reasons)
	}
	return row
}

func TestResolveCreatesCandidateWithEducation(t *testing.T) {
	store := newFakeCandidateStore()
	resolver := NewCandidateResolver(store)

	d := resolver.Resolve(acceptedRow(t, validFields()))
	if d.Outcome != OutcomeCreated {
		t.Fatalf("expected created, got %+v", d)
	}

	c, ok := store.candidates["10000001JA"]
	if !ok {
		t.Fatalf("candidate not stored")
	}
	if c.EntryMode != models.EntryModeUTME {
		t.Errorf("expected utme entry mode, got %q", c.EntryMode)
	}

	edu, ok := store.education["10000001JA"]
	if !ok {
		t.Fatalf("expected education record for scored utme row")
	}
	if edu.Aggregate == nil || *edu.Aggregate != 216 {
		t.Errorf("expected aggregate 216, got %v", edu.Aggregate)
	}
	if edu.CandidateID != c.CandidateID {
		t.Errorf("education record not linked to candidate")
	}
}

func TestResolveDirectEntrySkipsEducation(t *testing.T) {
	store := newFakeCandidateStore()
	resolver := NewCandidateResolver(store)

	fields := validFields()
	fields["entry_mode"] = "DE"
	d := resolver.Resolve(acceptedRow(t, fields))
	if d.Outcome != OutcomeCreated {
		t.Fatalf("expected created, got %+v", d)
	}
	if _, ok := store.education["10000001JA"]; ok {
		t.Errorf("direct entry row must not create an education record")
	}
}

func TestResolveRejectsDuplicate(t *testing.T) {
	store := newFakeCandidateStore()
	store.seed("10000001JA")
	resolver := NewCandidateResolver(store)

	d := resolver.Resolve(acceptedRow(t, validFields()))
	if d.Outcome != OutcomeRejected || d.ErrorType != models.RowErrorTypeDuplicate {
		t.Fatalf("expected duplicate rejection, got %+v", d)
	}
}

func TestResolveRaceLostToConcurrentInsert(t *testing.T) {
	store := newFakeCandidateStore()
	store.createErr = gorm.ErrDuplicatedKey
	resolver := NewCandidateResolver(store)

	d := resolver.Resolve(acceptedRow(t, validFields()))
	if d.Outcome != OutcomeRejected || d.ErrorType != models.RowErrorTypeDuplicate {
		t.Fatalf("expected duplicate rejection on unique index conflict, got %+v", d)
	}
}

func TestResolveSystemErrors(t *testing.T) {
	store := newFakeCandidateStore()
	store.findErr = errors.New("connection refused")
	resolver := NewCandidateResolver(store)

	d := resolver.Resolve(acceptedRow(t, validFields()))
	if d.Outcome != OutcomeRejected || d.ErrorType != models.RowErrorTypeSystem {
		t.Fatalf("expected system rejection on lookup failure, got %+v", d)
	}

	store.findErr = nil
	store.createErr = errors.New("disk full")
	d = resolver.Resolve(acceptedRow(t, validFields()))
	if d.Outcome != OutcomeRejected || d.ErrorType != models.RowErrorTypeSystem {
		t.Fatalf("expected system rejection on insert failure, got %+v", d)
	}
}
