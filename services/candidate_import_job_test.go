package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"admissions-api/models"
)

// fakeBatchStore keeps batches and row errors in memory and applies the
// same column-map updates the gorm-backed store would.
type fakeBatchStore struct {
	batches   map[uint]*models.UploadBatch
	rowErrors []models.UploadRowError
	nextID    uint

	createErr error
	bulkErr   error
}

func newFakeBatchStore() *fakeBatchStore {
	return &fakeBatchStore{batches: make(map[uint]*models.UploadBatch)}
}

func (s *fakeBatchStore) Create(batch *models.UploadBatch) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	batch.ID = s.nextID
	batch.StartedAt = time.Now()
	s.batches[batch.ID] = batch
	return nil
}

func (s *fakeBatchStore) Update(batchID uint, updates map[string]interface{}) error {
	batch, ok := s.batches[batchID]
	if !ok {
		return ErrUploadBatchNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			batch.Status = value.(string)
		case "total_records":
			batch.TotalRecords = uint(value.(int))
		case "processed_records":
			batch.ProcessedRecords = uint(value.(int))
		case "failed_records":
			batch.FailedRecords = uint(value.(int))
		case "error_message":
			if value == nil {
				batch.ErrorMessage = nil
			} else {
				msg := value.(string)
				batch.ErrorMessage = &msg
			}
		case "completed_at":
			if value == nil {
				batch.CompletedAt = nil
			} else {
				at := value.(time.Time)
				batch.CompletedAt = &at
			}
		default:
			return fmt.Errorf("unexpected update column %q", key)
		}
	}
	return nil
}

func (s *fakeBatchStore) GetByID(batchID uint) (*models.UploadBatch, error) {
	batch, ok := s.batches[batchID]
	if !ok {
		return nil, ErrUploadBatchNotFound
	}
	return batch, nil
}

func (s *fakeBatchStore) BulkInsertRowErrors(rowErrors []models.UploadRowError) error {
	if s.bulkErr != nil {
		return s.bulkErr
	}
	s.rowErrors = append(s.rowErrors, rowErrors...)
	return nil
}

func (s *fakeBatchStore) ClearRowErrors(batchID uint) error {
	kept := s.rowErrors[:0]
	for _, re := range s.rowErrors {
		if re.BatchID != batchID {
			kept = append(kept, re)
		}
	}
	s.rowErrors = kept
	return nil
}

type fakeAuditLogger struct {
	actions []string
}

func (l *fakeAuditLogger) Record(actor, action, target, detail string) {
	l.actions = append(l.actions, action)
}

func newTestImportJob() (*CandidateImportJobService, *fakeBatchStore, *fakeCandidateStore, *fakeAuditLogger) {
	batches := newFakeBatchStore()
	store := newFakeCandidateStore()
	audit := &fakeAuditLogger{}
	svc := &CandidateImportJobService{
		batches:  batches,
		resolver: NewCandidateResolver(store),
		audit:    audit,
	}
	return svc, batches, store, audit
}

const csvHeader = "RegNumber,Surname,First Name,Gender,Score1,Score2,Score3,Score4\n"

func TestRunThreeRowScenario(t *testing.T) {
	svc, batches, store, audit := newTestImportJob()
	store.seed("10000002JA")

	data := []byte(csvHeader +
		"10000001JA,,Chinedu,M,61,55,48,52\n" + // missing surname
		"10000002JA,BELLO,Amina,F,60,50,40,30\n" + // already in storage
		"10000003JA,ADEYEMI,Tolu,F,70,65,60,55\n") // valid new row

	summary, err := svc.Run(&ImportInput{
		Data:       data,
		Filename:   "candidates.csv",
		RecordType: models.UploadRecordTypeCandidate,
		UploadedBy: "admin@portal",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalRecords != 3 || summary.ProcessedRecords != 1 || summary.FailedRecords != 2 {
		t.Fatalf("expected 3/1/2 totals, got %d/%d/%d",
			summary.TotalRecords, summary.ProcessedRecords, summary.FailedRecords)
	}
	if len(summary.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(summary.Errors))
	}
	if summary.Errors[0].RowNumber != 2 || summary.Errors[0].ErrorType != models.RowErrorTypeValidation {
		t.Errorf("expected validation error on row 2, got %+v", summary.Errors[0])
	}
	if summary.Errors[1].RowNumber != 3 || summary.Errors[1].ErrorType != models.RowErrorTypeDuplicate {
		t.Errorf("expected duplicate error on row 3, got %+v", summary.Errors[1])
	}
	if summary.Errors[1].JambRegNumber != "10000002JA" {
		t.Errorf("expected natural key on duplicate error, got %q", summary.Errors[1].JambRegNumber)
	}

	batch := batches.batches[summary.BatchID]
	if batch.Status != models.UploadBatchStatusCompleted {
		t.Errorf("expected completed batch despite row failures, got %q", batch.Status)
	}
	if batch.ProcessedRecords+batch.FailedRecords != batch.TotalRecords {
		t.Errorf("count invariant violated: %d+%d != %d",
			batch.ProcessedRecords, batch.FailedRecords, batch.TotalRecords)
	}
	if batch.CompletedAt == nil {
		t.Errorf("expected completion timestamp on terminal batch")
	}
	if len(batches.rowErrors) != 2 {
		t.Errorf("expected row errors persisted, got %d", len(batches.rowErrors))
	}
	if _, ok := store.candidates["10000003JA"]; !ok {
		t.Errorf("expected valid row created")
	}
	if len(audit.actions) != 1 || audit.actions[0] != "candidate_import" {
		t.Errorf("expected one audit record, got %v", audit.actions)
	}
}

func TestRunReportsOriginalFileLines(t *testing.T) {
	svc, _, store, _ := newTestImportJob()

	data := []byte(csvHeader +
		"10000001JA,OKAFOR,Chinedu,M,61,55,48,52\n" + // line 2: valid
		",,,,,,,\n" + // line 3: blank, skipped
		"10000002JA,,Amina,F,60,50,40,30\n" + // line 4: missing surname
		"10000003JA,ADEYEMI,Tolu,F,70,65,60,55,extra\n" + // line 5: wider than the header
		"10000004JA,BELLO\n") // line 6: narrower than the header

	summary, err := svc.Run(&ImportInput{
		Data:       data,
		Filename:   "candidates.csv",
		UploadedBy: "admin@portal",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The blank row is skipped, not counted.
	if summary.TotalRecords != 4 {
		t.Fatalf("expected 4 data rows, got %d", summary.TotalRecords)
	}
	if summary.CreatedRecords != 2 || summary.FailedRecords != 2 {
		t.Fatalf("expected 2 created / 2 failed, got %+v", summary)
	}

	// Row numbers match the uploader's own file, even after the blank row.
	if len(summary.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(summary.Errors))
	}
	if summary.Errors[0].RowNumber != 4 {
		t.Errorf("expected missing-surname error on file line 4, got %d", summary.Errors[0].RowNumber)
	}
	if summary.Errors[1].RowNumber != 6 {
		t.Errorf("expected short-row error on file line 6, got %d", summary.Errors[1].RowNumber)
	}

	// A row wider than the header still imports; extra cells are ignored.
	if _, ok := store.candidates["10000003JA"]; !ok {
		t.Errorf("expected wide row created")
	}
}

func TestRunRowErrorWriteFailureKeepsCounts(t *testing.T) {
	svc, batches, store, _ := newTestImportJob()
	batches.bulkErr = errors.New("row error table unavailable")
	store.seed("10000002JA")

	data := []byte(csvHeader +
		"10000001JA,OKAFOR,Chinedu,M,61,55,48,52\n" +
		"10000002JA,BELLO,Amina,F,60,50,40,30\n")

	_, err := svc.Run(&ImportInput{Data: data, Filename: "c.csv", UploadedBy: "admin"})
	if err == nil {
		t.Fatalf("expected error when row errors cannot be persisted")
	}

	for _, batch := range batches.batches {
		if batch.Status != models.UploadBatchStatusFailed {
			t.Errorf("expected failed batch, got %q", batch.Status)
		}
		// The rows were already processed; a failed batch still reports them.
		if batch.ProcessedRecords+batch.FailedRecords != batch.TotalRecords {
			t.Errorf("count invariant violated on failed batch: %d+%d != %d",
				batch.ProcessedRecords, batch.FailedRecords, batch.TotalRecords)
		}
	}
}

func TestRunHeaderOnlyFile(t *testing.T) {
	svc, batches, _, _ := newTestImportJob()

	_, err := svc.Run(&ImportInput{
		Data:       []byte(csvHeader),
		Filename:   "empty.csv",
		UploadedBy: "admin@portal",
	})
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}

	// No batch may be left sitting in a non-terminal state.
	for _, batch := range batches.batches {
		if batch.Status != models.UploadBatchStatusFailed {
			t.Errorf("expected failed batch, got %q", batch.Status)
		}
		if batch.ErrorMessage == nil {
			t.Errorf("expected decode error recorded on batch")
		}
	}
}

func TestRunIdempotentResubmission(t *testing.T) {
	svc, _, _, _ := newTestImportJob()

	data := []byte(csvHeader +
		"10000001JA,OKAFOR,Chinedu,M,61,55,48,52\n" +
		"10000002JA,BELLO,Amina,F,60,50,40,30\n")

	first, err := svc.Run(&ImportInput{Data: data, Filename: "c.csv", UploadedBy: "admin"})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.CreatedRecords != 2 || first.FailedRecords != 0 {
		t.Fatalf("expected clean first run, got %+v", first)
	}

	second, err := svc.Run(&ImportInput{Data: data, Filename: "c.csv", UploadedBy: "admin"})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.CreatedRecords != 0 || second.FailedRecords != 2 {
		t.Fatalf("expected every prior creation to classify as duplicate, got %+v", second)
	}
	for i, re := range second.Errors {
		if re.ErrorType != models.RowErrorTypeDuplicate {
			t.Errorf("row %d: expected duplicate, got %q", i, re.ErrorType)
		}
		if re.RowNumber != i+2 {
			t.Errorf("expected header-adjusted row number %d, got %d", i+2, re.RowNumber)
		}
	}
}

func TestRunSystemErrorDoesNotAbortBatch(t *testing.T) {
	svc, batches, store, _ := newTestImportJob()
	store.findErr = errors.New("storage unavailable")

	data := []byte(csvHeader +
		"10000001JA,OKAFOR,Chinedu,M,61,55,48,52\n" +
		"10000002JA,BELLO,Amina,F,60,50,40,30\n")

	summary, err := svc.Run(&ImportInput{Data: data, Filename: "c.csv", UploadedBy: "admin"})
	if err != nil {
		t.Fatalf("system row errors must not fail the batch: %v", err)
	}
	if summary.FailedRecords != 2 {
		t.Fatalf("expected both rows rejected, got %+v", summary)
	}
	for _, re := range summary.Errors {
		if re.ErrorType != models.RowErrorTypeSystem {
			t.Errorf("expected system error, got %q", re.ErrorType)
		}
	}
	batch := batches.batches[summary.BatchID]
	if batch.Status != models.UploadBatchStatusCompleted {
		t.Errorf("partial success is still a completed batch, got %q", batch.Status)
	}
}

func TestRunBatchCreateFailureIsOperational(t *testing.T) {
	svc, batches, _, _ := newTestImportJob()
	batches.createErr = errors.New("table missing")

	_, err := svc.Run(&ImportInput{Data: []byte(csvHeader + "a,b,c,M,1,2,3,4\n"), Filename: "c.csv"})
	if err == nil {
		t.Fatalf("expected operational error when batch record cannot be created")
	}
}

func TestRetryRerunsTerminalBatch(t *testing.T) {
	svc, batches, store, _ := newTestImportJob()

	bad := []byte(csvHeader + "10000001JA,,Chinedu,M,61,55,48,52\n")
	first, err := svc.Run(&ImportInput{Data: bad, Filename: "c.csv", UploadedBy: "admin"})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.FailedRecords != 1 || len(batches.rowErrors) != 1 {
		t.Fatalf("expected one failed row recorded, got %+v", first)
	}

	fixed := []byte(csvHeader + "10000001JA,OKAFOR,Chinedu,M,61,55,48,52\n")
	retry, err := svc.Retry(first.BatchID, fixed, "admin")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if retry.CreatedRecords != 1 || retry.FailedRecords != 0 {
		t.Fatalf("expected clean retry, got %+v", retry)
	}
	if len(batches.rowErrors) != 0 {
		t.Errorf("expected prior row errors cleared, got %d", len(batches.rowErrors))
	}
	if _, ok := store.candidates["10000001JA"]; !ok {
		t.Errorf("expected candidate created on retry")
	}

	batch := batches.batches[first.BatchID]
	if batch.Status != models.UploadBatchStatusCompleted {
		t.Errorf("expected completed batch after retry, got %q", batch.Status)
	}
}

func TestRetryRejectsNonTerminalBatch(t *testing.T) {
	svc, batches, _, _ := newTestImportJob()

	running := &models.UploadBatch{Reference: "ref", Status: models.UploadBatchStatusProcessing}
	if err := batches.Create(running); err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	_, err := svc.Retry(running.ID, []byte(csvHeader+"a,b,c,M,1,2,3,4\n"), "admin")
	if !errors.Is(err, ErrBatchNotRetryable) {
		t.Fatalf("expected ErrBatchNotRetryable, got %v", err)
	}
}
