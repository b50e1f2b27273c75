// Package excel parses student roster workbooks and produces the blank
// import template handed to administrative staff.
package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Roster column headers, matched case-insensitively in the first row.
var requiredColumns = []string{
	"nom_prenom_fr",
	"nom_prenom_ar",
	"matricule",
	"nni",
	"date_naissance",
	"lieu_naissance_fr",
	"lieu_naissance_ar",
	"mention_fr",
	"mention_ar",
}

// RosterRow is one parsed student line from an import workbook.
type RosterRow struct {
	Row          int
	NameFR       string
	NameAR       string
	Matricule    int64
	NNI          string
	BirthDate    time.Time
	BirthPlaceFR string
	BirthPlaceAR string
	MentionFR    string
	MentionAR    string
}

// RowError describes a roster line that could not be parsed.
type RowError struct {
	Row    int
	Reason string
}

// Parser reads roster workbooks.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the first worksheet of an xlsx workbook and returns the
// valid rows along with per-row errors for the lines that failed.
// Structural problems (no sheet, missing columns) fail the whole parse.
func (p *Parser) Parse(data []byte) ([]RosterRow, []RowError, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("workbook has no data rows")
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var (
		parsed []RosterRow
		failed []RowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isEmptyRow(row) {
			continue
		}
		r, err := p.parseRow(row, columnMap, rowNum)
		if err != nil {
			failed = append(failed, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		parsed = append(parsed, *r)
	}

	return parsed, failed, nil
}

func (p *Parser) parseRow(row []string, columnMap map[string]int, rowNum int) (*RosterRow, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	for _, col := range requiredColumns {
		if getValue(col) == "" {
			return nil, fmt.Errorf("%s is required", col)
		}
	}

	matricule, err := strconv.ParseInt(getValue("matricule"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid matricule: %s", getValue("matricule"))
	}

	birthDate, err := parseDate(getValue("date_naissance"))
	if err != nil {
		return nil, fmt.Errorf("invalid date_naissance: %s", getValue("date_naissance"))
	}

	return &RosterRow{
		Row:          rowNum,
		NameFR:       getValue("nom_prenom_fr"),
		NameAR:       getValue("nom_prenom_ar"),
		Matricule:    matricule,
		NNI:          getValue("nni"),
		BirthDate:    birthDate,
		BirthPlaceFR: getValue("lieu_naissance_fr"),
		BirthPlaceAR: getValue("lieu_naissance_ar"),
		MentionFR:    getValue("mention_fr"),
		MentionAR:    getValue("mention_ar"),
	}, nil
}

// parseDate accepts the formats staff actually type into the sheets,
// plus the serial format excelize emits for real date cells.
func parseDate(value string) (time.Time, error) {
	formats := []string{"2006-01-02", "02/01/2006", "01-02-06", "2/1/2006"}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Template builds the blank roster workbook with the expected headers
// and one example row.
func Template() ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for i, col := range requiredColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	example := []interface{}{
		"DIALLO Mamadou", "ديالو ممادو", 21001, "1234567890",
		"2001-05-14", "Nouakchott", "نواكشوط", "Bien", "جيد",
	}
	for i, v := range example {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to build example cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, v); err != nil {
			return nil, fmt.Errorf("failed to write example row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return buf.Bytes(), nil
}
