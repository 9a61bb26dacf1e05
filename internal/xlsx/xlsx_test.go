package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	e, err := eval.NewEngine("en", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.AddSheet("Sheet1"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	a := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	b := model.CellAddress{WorksheetID: 1, Row: 0, Column: 1}
	if err := e.SetUserInput(a, "10"); err != nil {
		t.Fatalf("SetUserInput a: %v", err)
	}
	if err := e.SetUserInput(b, "=A1*2"); err != nil {
		t.Fatalf("SetUserInput b: %v", err)
	}
	if err := e.Evaluate(); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "roundtrip.xlsx")
	if err := Export(path, e); err != nil {
		t.Fatalf("Export: %v", err)
	}

	e2, err := eval.NewEngine("en", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := Import(path, e2); err != nil {
		t.Fatalf("Import: %v", err)
	}
	sheetID, ok := e2.Book.Worksheets.IDByName("Sheet1")
	if !ok {
		t.Fatalf("Sheet1 missing after import")
	}
	v, err := e2.GetCellValue(model.CellAddress{WorksheetID: sheetID, Row: 0, Column: 1})
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != 20.0 {
		t.Fatalf("B1 = %v, want 20", v)
	}
	if formula, ok := e2.GetFormula(model.CellAddress{WorksheetID: sheetID, Row: 0, Column: 1}); !ok || formula != "=A1*2" {
		t.Fatalf("GetFormula = %q, %v, want \"=A1*2\"", formula, ok)
	}
}
