package services

import (
	"testing"
)

func TestCanonicalField(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"RegNumber", "jamb_reg_number"},
		{"JAMB REG NO", "jamb_reg_number"},
		{"jamb_reg_number", "jamb_reg_number"},
		{"Reg. Number", "jamb_reg_number"},
		{"Surname", "surname"},
		{"LAST NAME", "surname"},
		{"First   Name", "first_name"},
		{"Sex", "gender"},
		{"Date of Birth", "date_of_birth"},
		{"DOB", "date_of_birth"},
		{"GSM No", "phone"},
		{"State Of Origin", "state_of_origin"},
		{"Course Code", "programme"},
		{"Mode Of Entry", "entry_mode"},
		{"Subj1", "subject1"},
		{"AGGREGATE SCORE", "aggregate"},
		{"  Some Custom Column  ", "some_custom_column"},
	}
	for _, tc := range cases {
		if got := CanonicalField(tc.header); got != tc.want {
			t.Errorf("CanonicalField(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestNormalizeRow(t *testing.T) {
	headers := []string{"RegNumber", "Surname", "Score1", "Extra Column"}
	row := []Cell{
		{Kind: CellString, Str: "10000001JA"},
		{Kind: CellString, Str: "OKAFOR"},
		{Kind: CellNumber, Num: 56},
	}

	fields := NormalizeRow(headers, row)

	if fields["jamb_reg_number"] != "10000001JA" {
		t.Errorf("expected reg number mapped, got %q", fields["jamb_reg_number"])
	}
	if fields["score1"] != "56" {
		t.Errorf("expected coerced score, got %q", fields["score1"])
	}
	// Row shorter than the header: the missing column simply has no key.
	if _, ok := fields["extra_column"]; ok {
		t.Errorf("expected absent key for missing cell")
	}
}

func TestNormalizeRowSkipsEmptyCells(t *testing.T) {
	headers := []string{"Surname", "Gender"}
	row := []Cell{{Kind: CellString, Str: "BELLO"}, {Kind: CellEmpty}}

	fields := NormalizeRow(headers, row)
	if _, ok := fields["gender"]; ok {
		t.Errorf("expected empty cell to produce absent key")
	}
	if len(fields) != 1 {
		t.Errorf("expected 1 field, got %d", len(fields))
	}
}
