package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"admissions-api/models"
)

const (
	maxSubjectScore   = 100
	maxAggregateScore = 400
)

// CandidateRow is the validated field subset a row resolves to.
type CandidateRow struct {
	JambRegNumber string
	Surname       string
	FirstName     string
	MiddleName    string
	Gender        string
	DateOfBirth   *time.Time
	Email         string
	Phone         string
	StateOfOrigin string
	LGA           string
	Address       string
	Programme     string
	EntryMode     string

	Subjects  [4]string
	Scores    [4]*int
	Aggregate *int
}

// HasScores reports whether any exam score column was present.
func (r *CandidateRow) HasScores() bool {
	if r.Aggregate != nil {
		return true
	}
	for _, s := range r.Scores {
		if s != nil {
			return true
		}
	}
	return false
}

// ValidateRow checks one normalized row against the rules for the given
// record type. Validation is purely row-local: all violations on the row
// are collected and returned together, never fail-fast, and the database
// is never consulted here. A nil reason slice means the row is accepted.
func ValidateRow(fields map[string]string, recordType string) (*CandidateRow, []string) {
	var reasons []string
	row := &CandidateRow{
		JambRegNumber: strings.ToUpper(strings.TrimSpace(fields["jamb_reg_number"])),
		Surname:       strings.TrimSpace(fields["surname"]),
		FirstName:     strings.TrimSpace(fields["first_name"]),
		MiddleName:    strings.TrimSpace(fields["middle_name"]),
		Email:         strings.TrimSpace(fields["email"]),
		Phone:         strings.TrimSpace(fields["phone"]),
		StateOfOrigin: strings.TrimSpace(fields["state_of_origin"]),
		LGA:           strings.TrimSpace(fields["lga"]),
		Address:       strings.TrimSpace(fields["address"]),
		Programme:     strings.ToUpper(strings.TrimSpace(fields["programme"])),
	}

	if row.JambRegNumber == "" {
		reasons = append(reasons, "jamb registration number is required")
	}
	if row.Surname == "" {
		reasons = append(reasons, "surname is required")
	}
	if row.FirstName == "" {
		reasons = append(reasons, "first name is required")
	}

	if raw, ok := fields["gender"]; ok {
		gender, err := normalizeGender(raw)
		if err != nil {
			reasons = append(reasons, err.Error())
		} else {
			row.Gender = gender
		}
	}

	if raw, ok := fields["date_of_birth"]; ok {
		dob := parseRowDate(raw)
		switch {
		case dob == nil:
			reasons = append(reasons, fmt.Sprintf("unrecognized date of birth %q", raw))
		case dob.After(time.Now()):
			reasons = append(reasons, "date of birth is in the future")
		default:
			row.DateOfBirth = dob
		}
	}

	row.EntryMode = normalizeEntryMode(fields["entry_mode"])

	for i := 0; i < 4; i++ {
		row.Subjects[i] = strings.TrimSpace(fields[fmt.Sprintf("subject%d", i+1)])
		key := fmt.Sprintf("score%d", i+1)
		raw, ok := fields[key]
		if !ok {
			continue
		}
		score, err := parseScore(raw, key, maxSubjectScore)
		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		row.Scores[i] = score
	}

	if raw, ok := fields["aggregate"]; ok {
		score, err := parseScore(raw, "aggregate", maxAggregateScore)
		if err != nil {
			reasons = append(reasons, err.Error())
		} else {
			row.Aggregate = score
		}
	}

	// A full score sheet without an aggregate column still has a usable total.
	if row.Aggregate == nil {
		if sum, ok := sumScores(row.Scores); ok {
			row.Aggregate = &sum
		}
	}

	if recordType == models.UploadRecordTypePrelist && !row.HasScores() && len(reasons) == 0 {
		reasons = append(reasons, "prelist row has no score columns")
	}

	if len(reasons) > 0 {
		return nil, reasons
	}
	return row, nil
}

func normalizeGender(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male":
		return "male", nil
	case "f", "female":
		return "female", nil
	default:
		return "", fmt.Errorf("invalid gender value %q", raw)
	}
}

func normalizeEntryMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "de", "direct entry", "direct_entry":
		return models.EntryModeDirectEntry
	default:
		return models.EntryModeUTME
	}
}

func parseScore(raw, field string, max int) (*int, error) {
	// Spreadsheet numbers arrive as floats; accept "56.0".
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f != float64(int(f)) {
		return nil, fmt.Errorf("%s must be a whole number, got %q", field, raw)
	}
	n := int(f)
	if n < 0 || n > max {
		return nil, fmt.Errorf("%s %d is outside the valid range 0-%d", field, n, max)
	}
	return &n, nil
}

func sumScores(scores [4]*int) (int, bool) {
	sum := 0
	for _, s := range scores {
		if s == nil {
			return 0, false
		}
		sum += *s
	}
	return sum, true
}

var rowDateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006"}

func parseRowDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}
