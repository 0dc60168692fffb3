package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrMalformedFile = errors.New("malformed upload file")
	ErrEmptyFile     = errors.New("upload file has no data rows")
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellDate
)

// Cell is one spreadsheet/CSV cell. Raw values are kept as a tagged union
// so downstream coercion is explicit instead of relying on whatever the
// source format happened to produce.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// Value returns the canonical string form of the cell: numbers without
// trailing zeros, dates as YYYY-MM-DD.
func (c Cell) Value() string {
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		return c.Time.Format("2006-01-02")
	default:
		return c.Str
	}
}

// Rowset is a decoded upload file: one header row followed by data rows
// aligned by column position. Lines holds the 1-based position of each
// data row in the original file, so skipped blank rows never shift the
// numbers an operator sees against their own spreadsheet.
type Rowset struct {
	Headers []string
	Rows    [][]Cell
	Lines   []int
}

var cellDateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", time.RFC3339}

func classifyCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{Kind: CellEmpty}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Cell{Kind: CellNumber, Num: n, Str: s}
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Cell{Kind: CellDate, Time: t, Str: s}
		}
	}
	return Cell{Kind: CellString, Str: s}
}

// DecodeRows parses an uploaded CSV or XLSX byte buffer into a Rowset.
// The format is taken from the filename extension, falling back to
// content sniffing (xlsx files are zip archives). Returns ErrMalformedFile
// when the buffer cannot be parsed and ErrEmptyFile when there is no data
// row beyond the header.
func DecodeRows(data []byte, filename string) (*Rowset, error) {
	var rows [][]string
	var lines []int
	var err error

	if isSpreadsheet(data, filename) {
		rows, lines, err = decodeXLSX(data)
	} else {
		rows, lines, err = decodeCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	rowset := &Rowset{}
	for idx, raw := range rows {
		if blankRow(raw) {
			continue
		}

		// First non-blank row is the header.
		if rowset.Headers == nil {
			headers := make([]string, len(raw))
			for i, h := range raw {
				headers[i] = strings.TrimSpace(h)
			}
			rowset.Headers = headers
			continue
		}

		cells := make([]Cell, len(raw))
		for i, v := range raw {
			cells[i] = classifyCell(v)
		}
		rowset.Rows = append(rowset.Rows, cells)
		rowset.Lines = append(rowset.Lines, lines[idx])
	}

	if len(rowset.Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rowset, nil
}

func isSpreadsheet(data []byte, filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	case ".csv", ".txt":
		return false
	}
	// xlsx is a zip container
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// decodeCSV returns the records with their 1-based file lines. The csv
// reader skips bare empty lines entirely, so positions come from FieldPos
// rather than the record index.
func decodeCSV(data []byte) ([][]string, []int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	var lines []int
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
}

func decodeXLSX(data []byte) ([][]string, []int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return rows, lines, nil
}

// blankRow reports whether every cell is blank, a common artifact of
// spreadsheets edited by hand. Blank rows are skipped without consuming a
// position in the Lines mapping.
func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
