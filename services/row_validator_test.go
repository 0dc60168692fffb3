package services

import (
	"strings"
	"testing"

	"admissions-api/models"
)

func validFields() map[string]string {
	return map[string]string{
		"jamb_reg_number": "10000001JA",
		"surname":         "OKAFOR",
		"first_name":      "Chinedu",
		"gender":          "M",
		"date_of_birth":   "2004-03-12",
		"subject1":        "ENGLISH",
		"score1":          "61",
		"subject2":        "MATHEMATICS",
		"score2":          "55",
		"subject3":        "PHYSICS",
		"score3":          "48",
		"subject4":        "CHEMISTRY",
		"score4":          "52",
	}
}

func TestValidateRowAccepted(t *testing.T) {
	row, reasons := ValidateRow(validFields(), models.UploadRecordTypeCandidate)
	if reasons != nil {
		t.Fatalf("expected accepted row, got reasons %v", reasons)
	}
	if row.Gender != "male" {
		t.Errorf("expected gender normalized to male, got %q", row.Gender)
	}
	if row.EntryMode != models.EntryModeUTME {
		t.Errorf("expected default entry mode utme, got %q", row.EntryMode)
	}
	if row.Aggregate == nil || *row.Aggregate != 216 {
		t.Errorf("expected aggregate computed from subject scores, got %v", row.Aggregate)
	}
}

func TestValidateRowCollectsAllViolations(t *testing.T) {
	fields := map[string]string{
		"gender":        "X",
		"date_of_birth": "3020-01-01",
		"score1":        "999",
	}
	_, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if len(reasons) != 6 {
		t.Fatalf("expected 6 reasons (3 missing fields, gender, dob, score), got %d: %v", len(reasons), reasons)
	}

	joined := strings.Join(reasons, "; ")
	for _, want := range []string{
		"jamb registration number is required",
		"surname is required",
		"first name is required",
		"invalid gender value",
		"date of birth is in the future",
		"outside the valid range",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected reason containing %q in %q", want, joined)
		}
	}
}

func TestValidateRowAggregateRange(t *testing.T) {
	fields := validFields()
	fields["aggregate"] = "401"
	_, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if len(reasons) != 1 || !strings.Contains(reasons[0], "0-400") {
		t.Fatalf("expected single aggregate range violation, got %v", reasons)
	}

	fields["aggregate"] = "400"
	row, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if reasons != nil {
		t.Fatalf("expected 400 accepted, got %v", reasons)
	}
	if *row.Aggregate != 400 {
		t.Errorf("expected explicit aggregate to win over computed sum, got %d", *row.Aggregate)
	}
}

func TestValidateRowNonNumericScore(t *testing.T) {
	fields := validFields()
	fields["score2"] = "fifty"
	_, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if len(reasons) != 1 || !strings.Contains(reasons[0], "score2") {
		t.Fatalf("expected score2 violation, got %v", reasons)
	}
}

func TestValidateRowUnparseableDateOfBirth(t *testing.T) {
	fields := validFields()
	fields["date_of_birth"] = "sometime in 2004"
	_, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if len(reasons) != 1 || !strings.Contains(reasons[0], "date of birth") {
		t.Fatalf("expected date of birth violation, got %v", reasons)
	}
}

func TestValidateRowPrelistRequiresScores(t *testing.T) {
	fields := map[string]string{
		"jamb_reg_number": "10000001JA",
		"surname":         "OKAFOR",
		"first_name":      "Chinedu",
	}
	_, reasons := ValidateRow(fields, models.UploadRecordTypePrelist)
	if len(reasons) != 1 || !strings.Contains(reasons[0], "no score columns") {
		t.Fatalf("expected prelist score violation, got %v", reasons)
	}

	// The same row is fine as a plain candidate bio import.
	if _, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate); reasons != nil {
		t.Fatalf("expected candidate row accepted without scores, got %v", reasons)
	}
}

func TestValidateRowDirectEntry(t *testing.T) {
	fields := map[string]string{
		"jamb_reg_number": "20000001DE",
		"surname":         "ADEyemi",
		"first_name":      "Tolu",
		"entry_mode":      "Direct Entry",
	}
	row, reasons := ValidateRow(fields, models.UploadRecordTypeCandidate)
	if reasons != nil {
		t.Fatalf("expected accepted row, got %v", reasons)
	}
	if row.EntryMode != models.EntryModeDirectEntry {
		t.Errorf("expected direct entry mode, got %q", row.EntryMode)
	}
	if row.HasScores() {
		t.Errorf("expected no scores on direct entry row")
	}
}
