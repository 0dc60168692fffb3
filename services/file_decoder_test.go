package services

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeRowsCSV(t *testing.T) {
	data := []byte("RegNumber,Surname,Score1,Date Of Birth\n10000001JA,OKAFOR,56,2004-03-12\n10000002JA,BELLO,,\n")

	rowset, err := DecodeRows(data, "candidates.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowset.Headers) != 4 {
		t.Fatalf("expected 4 headers, got %d", len(rowset.Headers))
	}
	if len(rowset.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(rowset.Rows))
	}

	first := rowset.Rows[0]
	if first[0].Kind != CellString || first[0].Value() != "10000001JA" {
		t.Errorf("expected string cell 10000001JA, got kind=%d value=%q", first[0].Kind, first[0].Value())
	}
	if first[2].Kind != CellNumber || first[2].Value() != "56" {
		t.Errorf("expected number cell 56, got kind=%d value=%q", first[2].Kind, first[2].Value())
	}
	if first[3].Kind != CellDate || first[3].Value() != "2004-03-12" {
		t.Errorf("expected date cell 2004-03-12, got kind=%d value=%q", first[3].Kind, first[3].Value())
	}
	if !rowset.Rows[1][2].IsEmpty() {
		t.Errorf("expected empty score cell on second row")
	}
	if len(rowset.Lines) != 2 || rowset.Lines[0] != 2 || rowset.Lines[1] != 3 {
		t.Errorf("expected file lines [2 3], got %v", rowset.Lines)
	}
}

func TestDecodeRowsHeaderOnly(t *testing.T) {
	_, err := DecodeRows([]byte("RegNumber,Surname\n"), "empty.csv")
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestDecodeRowsDropsBlankRows(t *testing.T) {
	data := []byte("RegNumber,Surname\n,,\n10000001JA,OKAFOR\n , \n10000002JA,BELLO\n")
	rowset, err := DecodeRows(data, "candidates.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowset.Rows) != 2 {
		t.Fatalf("expected blank rows dropped, got %d rows", len(rowset.Rows))
	}
	// Skipped blank rows must not shift the positions of the rows after
	// them: the kept rows sit on file lines 3 and 5.
	if rowset.Lines[0] != 3 || rowset.Lines[1] != 5 {
		t.Errorf("expected original file lines [3 5], got %v", rowset.Lines)
	}
}

func TestDecodeRowsBareEmptyLineKeepsPositions(t *testing.T) {
	// A bare empty line (no separators) is silently skipped by the csv
	// reader; the row after it must still report its true file line.
	data := []byte("RegNumber,Surname\n\n10000001JA,OKAFOR\n")
	rowset, err := DecodeRows(data, "candidates.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowset.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(rowset.Rows))
	}
	if rowset.Lines[0] != 3 {
		t.Errorf("expected data row on file line 3, got %d", rowset.Lines[0])
	}
}

func TestDecodeRowsMalformedCSV(t *testing.T) {
	_, err := DecodeRows([]byte("a,\"b\nc,\"d"), "broken.csv")
	if !errors.Is(err, ErrMalformedFile) {
		t.Fatalf("expected ErrMalformedFile, got %v", err)
	}
}

func TestDecodeRowsMalformedXLSX(t *testing.T) {
	_, err := DecodeRows([]byte("definitely not a workbook"), "scores.xlsx")
	if !errors.Is(err, ErrMalformedFile) {
		t.Fatalf("expected ErrMalformedFile, got %v", err)
	}
}

func TestDecodeRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"RegNumber", "Surname", "Score1"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"10000001JA", "OKAFOR", 56})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	rowset, err := DecodeRows(buf.Bytes(), "candidates.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowset.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(rowset.Rows))
	}
	if rowset.Rows[0][2].Kind != CellNumber {
		t.Errorf("expected numeric score cell, got kind=%d", rowset.Rows[0][2].Kind)
	}
}

func TestDecodeRowsSniffsSpreadsheetWithoutExtension(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"RegNumber"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"10000001JA"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	rowset, err := DecodeRows(buf.Bytes(), "upload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowset.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(rowset.Rows))
	}
}
