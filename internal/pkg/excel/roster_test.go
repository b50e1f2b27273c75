package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func header() []interface{} {
	return []interface{}{
		"nom_prenom_fr", "nom_prenom_ar", "matricule", "nni",
		"date_naissance", "lieu_naissance_fr", "lieu_naissance_ar",
		"mention_fr", "mention_ar",
	}
}

func TestParseValidRoster(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		header(),
		{"DIALLO Mamadou", "ديالو ممادو", "21001", "1234567890", "2001-05-14", "Nouakchott", "نواكشوط", "Bien", "جيد"},
		{"SOW Aissata", "صو عيساتا", "21002", "9876543210", "14/03/2000", "Rosso", "روصو", "Très Bien", "جيد جدا"},
	})

	rows, failed, err := NewParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("expected no failed rows, got %v", failed)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Matricule != 21001 {
		t.Errorf("matricule = %d, want 21001", first.Matricule)
	}
	if first.NameAR != "ديالو ممادو" {
		t.Errorf("unexpected arabic name %q", first.NameAR)
	}
	if got := first.BirthDate.Format("2006-01-02"); got != "2001-05-14" {
		t.Errorf("birth date = %s, want 2001-05-14", got)
	}
	if got := rows[1].BirthDate.Format("2006-01-02"); got != "2000-03-14" {
		t.Errorf("second birth date = %s, want 2000-03-14", got)
	}
}

func TestParseCollectsRowErrors(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		header(),
		{"DIALLO Mamadou", "ديالو ممادو", "not-a-number", "1234567890", "2001-05-14", "Nouakchott", "نواكشوط", "Bien", "جيد"},
		{"SOW Aissata", "صو عيساتا", "21002", "9876543210", "2000-03-14", "Rosso", "روصو", "Très Bien", "جيد جدا"},
	})

	rows, failed, err := NewParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(rows))
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed row, got %d", len(failed))
	}
	if failed[0].Row != 2 {
		t.Errorf("failed row number = %d, want 2", failed[0].Row)
	}
}

func TestParseMissingColumnFails(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"nom_prenom_fr", "matricule"},
		{"DIALLO Mamadou", "21001"},
	})

	if _, _, err := NewParser().Parse(data); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestTemplateRoundTrips(t *testing.T) {
	data, err := Template()
	if err != nil {
		t.Fatalf("Template returned error: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template is not a readable workbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		t.Fatalf("read template rows: %v", err)
	}
	if len(rows) < 1 {
		t.Fatal("template has no header row")
	}
	if rows[0][0] != "nom_prenom_fr" {
		t.Errorf("first header = %q, want nom_prenom_fr", rows[0][0])
	}
	if len(rows[0]) != len(requiredColumns) {
		t.Errorf("header has %d columns, want %d", len(rows[0]), len(requiredColumns))
	}
}
