package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"admissions-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrImportInputMissing = errors.New("import input is missing file data")
	ErrBatchNotRetryable  = errors.New("only completed or failed batches can be retried")
)

// ImportInput carries one upload: the raw file bytes, the original
// filename, the record type being ingested and the acting admin.
type ImportInput struct {
	Data       []byte
	Filename   string
	RecordType string
	UploadedBy string
}

type RowErrorSummary struct {
	RowNumber     int    `json:"row_number"`
	JambRegNumber string `json:"jamb_reg_number,omitempty"`
	ErrorType     string `json:"error_type"`
	Message       string `json:"message"`
}

type ImportSummary struct {
	BatchID          uint              `json:"batch_id"`
	Reference        string            `json:"reference"`
	TotalRecords     int               `json:"total_records"`
	ProcessedRecords int               `json:"processed_records"`
	CreatedRecords   int               `json:"created_records"`
	UpdatedRecords   int               `json:"updated_records"`
	FailedRecords    int               `json:"failed_records"`
	Errors           []RowErrorSummary `json:"errors"`
	Message          string            `json:"message"`
}

// importTally accumulates per-row outcomes for one batch run. A fresh
// tally is created per run and never shared, which is its reset semantics.
type importTally struct {
	created  int
	updated  int
	rejected int
}

func (t *importTally) processed() int { return t.created + t.updated }

// CandidateImportJobService drives the ingestion pipeline: decode →
// normalize → validate → resolve, row by row in file order, then one bulk
// write of the accumulated row errors and a final batch update.
type CandidateImportJobService struct {
	batches  BatchStore
	resolver *CandidateResolver
	audit    AuditLogger
}

func NewCandidateImportJobService(db *gorm.DB) *CandidateImportJobService {
	return &CandidateImportJobService{
		batches:  NewUploadBatchService(db),
		resolver: NewCandidateResolver(NewGormCandidateStore(db)),
		audit:    NewAuditLogService(db),
	}
}

// Run processes one uploaded file end to end and returns the batch
// summary. Row-level failures are recorded and never abort the batch; an
// error return means the batch itself could not be created or decoded.
func (s *CandidateImportJobService) Run(input *ImportInput) (*ImportSummary, error) {
	if input == nil || len(input.Data) == 0 {
		return nil, ErrImportInputMissing
	}

	recordType := input.RecordType
	if recordType == "" {
		recordType = models.UploadRecordTypeCandidate
	}

	batch := &models.UploadBatch{
		Reference:  uuid.NewString(),
		Filename:   input.Filename,
		RecordType: recordType,
		Status:     models.UploadBatchStatusUploading,
		UploadedBy: input.UploadedBy,
	}
	if err := s.batches.Create(batch); err != nil {
		return nil, fmt.Errorf("create upload batch: %w", err)
	}

	summary, err := s.process(batch, input.Data)
	if err != nil {
		return nil, err
	}

	s.audit.Record(input.UploadedBy, "candidate_import", batch.Reference, summary.Message)
	return summary, nil
}

// Retry re-runs a terminal batch with re-supplied file bytes. Prior row
// errors are cleared first; the original file is not retained by the
// pipeline, so the caller must provide it again.
func (s *CandidateImportJobService) Retry(batchID uint, data []byte, actor string) (*ImportSummary, error) {
	if len(data) == 0 {
		return nil, ErrImportInputMissing
	}

	batch, err := s.batches.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if !batch.Terminal() {
		return nil, ErrBatchNotRetryable
	}

	if err := s.batches.ClearRowErrors(batch.ID); err != nil {
		return nil, fmt.Errorf("clear prior row errors: %w", err)
	}
	if err := s.batches.Update(batch.ID, map[string]interface{}{
		"status":            models.UploadBatchStatusProcessing,
		"total_records":     0,
		"processed_records": 0,
		"failed_records":    0,
		"error_message":     nil,
		"completed_at":      nil,
	}); err != nil {
		return nil, err
	}

	summary, err := s.process(batch, data)
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor, "candidate_import_retry", batch.Reference, summary.Message)
	return summary, nil
}

func (s *CandidateImportJobService) process(batch *models.UploadBatch, data []byte) (*ImportSummary, error) {
	rowset, err := DecodeRows(data, batch.Filename)
	if err != nil {
		s.markFailed(batch, nil, err)
		return nil, err
	}

	if err := s.batches.Update(batch.ID, map[string]interface{}{
		"status":        models.UploadBatchStatusProcessing,
		"total_records": len(rowset.Rows),
	}); err != nil {
		s.markFailed(batch, nil, err)
		return nil, err
	}

	tally := &importTally{}
	rowErrors := make([]models.UploadRowError, 0)

	// Strictly sequential and order-preserving so reported row numbers are
	// deterministic. Each row is reported at its position in the original
	// file, so skipped blank rows never shift the numbers that follow.
	for i, row := range rowset.Rows {
		rowNumber := rowset.Lines[i]
		if rowErr := s.processRow(batch, rowset.Headers, row, rowNumber, tally); rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
		}
	}

	// One bulk write after the loop; no interleaved partial error state.
	if err := s.batches.BulkInsertRowErrors(rowErrors); err != nil {
		s.markFailed(batch, tally, err)
		return nil, fmt.Errorf("persist row errors: %w", err)
	}

	now := time.Now()
	if err := s.batches.Update(batch.ID, map[string]interface{}{
		"processed_records": tally.processed(),
		"failed_records":    tally.rejected,
		"status":            models.UploadBatchStatusCompleted,
		"completed_at":      now,
	}); err != nil {
		s.markFailed(batch, tally, err)
		return nil, err
	}

	summary := &ImportSummary{
		BatchID:          batch.ID,
		Reference:        batch.Reference,
		TotalRecords:     len(rowset.Rows),
		ProcessedRecords: tally.processed(),
		CreatedRecords:   tally.created,
		UpdatedRecords:   tally.updated,
		FailedRecords:    tally.rejected,
		Errors:           make([]RowErrorSummary, 0, len(rowErrors)),
		Message: fmt.Sprintf("Processed %d of %d rows: %d created, %d updated, %d failed",
			tally.processed(), len(rowset.Rows), tally.created, tally.updated, tally.rejected),
	}
	for _, re := range rowErrors {
		summary.Errors = append(summary.Errors, RowErrorSummary{
			RowNumber:     re.RowNumber,
			JambRegNumber: re.JambRegNumber,
			ErrorType:     re.ErrorType,
			Message:       re.Message,
		})
	}
	return summary, nil
}

// processRow runs normalize → validate → resolve for a single row and
// returns its error record, if any. Panics are confined to the row and
// reported as system errors so the rest of the batch keeps going.
func (s *CandidateImportJobService) processRow(batch *models.UploadBatch, headers []string, row []Cell, rowNumber int, tally *importTally) (rowErr *models.UploadRowError) {
	fields := NormalizeRow(headers, row)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("row %d of batch %s panicked: %v", rowNumber, batch.Reference, r)
			tally.rejected++
			rowErr = &models.UploadRowError{
				BatchID:       batch.ID,
				RowNumber:     rowNumber,
				JambRegNumber: strings.ToUpper(fields["jamb_reg_number"]),
				ErrorType:     models.RowErrorTypeSystem,
				Message:       fmt.Sprintf("unexpected failure: %v", r),
				RawRow:        rawRowPayload(fields),
			}
		}
	}()

	candRow, reasons := ValidateRow(fields, batch.RecordType)
	if len(reasons) > 0 {
		tally.rejected++
		return &models.UploadRowError{
			BatchID:       batch.ID,
			RowNumber:     rowNumber,
			JambRegNumber: strings.ToUpper(fields["jamb_reg_number"]),
			ErrorType:     models.RowErrorTypeValidation,
			Message:       strings.Join(reasons, "; "),
			RawRow:        rawRowPayload(fields),
		}
	}

	disposition := s.resolver.Resolve(candRow)
	switch disposition.Outcome {
	case OutcomeCreated:
		tally.created++
		return nil
	case OutcomeUpdated:
		tally.updated++
		return nil
	default:
		tally.rejected++
		return &models.UploadRowError{
			BatchID:       batch.ID,
			RowNumber:     rowNumber,
			JambRegNumber: candRow.JambRegNumber,
			ErrorType:     disposition.ErrorType,
			Message:       disposition.Message,
			RawRow:        rawRowPayload(fields),
		}
	}
}

// markFailed records a batch-scoped failure. The error is still returned
// to the caller; this only makes the batch record tell the same story. A
// non-nil tally means the row loop already ran, so its counts are kept on
// the failed batch instead of leaving zeros against a non-zero total.
func (s *CandidateImportJobService) markFailed(batch *models.UploadBatch, tally *importTally, cause error) {
	msg := cause.Error()
	if len(msg) > 2000 {
		msg = msg[:1997] + "..."
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":        models.UploadBatchStatusFailed,
		"error_message": msg,
		"completed_at":  now,
	}
	if tally != nil {
		updates["processed_records"] = tally.processed()
		updates["failed_records"] = tally.rejected
	}
	if err := s.batches.Update(batch.ID, updates); err != nil {
		log.Printf("failed to mark batch %s failed: %v", batch.Reference, err)
	}
}

func rawRowPayload(fields map[string]string) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(b)
}
