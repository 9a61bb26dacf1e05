package store

import (
	"testing"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
)

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	e, err := eval.NewEngine("en", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.AddSheet("Sheet1"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	a := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	b := model.CellAddress{WorksheetID: 1, Row: 0, Column: 1}
	if err := e.SetUserInput(a, "5"); err != nil {
		t.Fatalf("SetUserInput a: %v", err)
	}
	if err := e.SetUserInput(b, "=A1+1"); err != nil {
		t.Fatalf("SetUserInput b: %v", err)
	}

	if err := s.Save("book1", e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("book1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sheetID, ok := loaded.Book.Worksheets.IDByName("Sheet1")
	if !ok {
		t.Fatalf("Sheet1 missing after load")
	}
	v, err := loaded.GetCellValue(model.CellAddress{WorksheetID: sheetID, Row: 0, Column: 1})
	if err != nil || v != 6.0 {
		t.Fatalf("GetCellValue = %v, %v, want 6", v, err)
	}

	if err := s.Delete("book1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("book1"); err == nil {
		t.Fatalf("Load succeeded after Delete")
	}
}
