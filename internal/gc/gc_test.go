package gc

import (
	"testing"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
)

func newEngine(t *testing.T) *eval.Engine {
	t.Helper()
	e, err := eval.NewEngine("en-US", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.AddSheet("Sheet1"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	return e
}

func TestCollectStringsKeepsLiveReferences(t *testing.T) {
	e := newEngine(t)
	addr := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	if err := e.SetUserInput(addr, "hello"); err != nil {
		t.Fatalf("SetUserInput: %v", err)
	}

	CollectStrings(e.Book.Workbook)

	if e.Book.Strings.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", e.Book.Strings.Count())
	}
	id, ok := e.Book.Strings.Lookup("hello")
	if !ok {
		t.Fatalf("hello not interned after collect")
	}
	if e.Book.Strings.ReferenceCount(id) != 1 {
		t.Fatalf("ReferenceCount(%d) = %d, want 1", id, e.Book.Strings.ReferenceCount(id))
	}
}

func TestCollectStringsReclaimsOverwrittenValue(t *testing.T) {
	e := newEngine(t)
	addr := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	if err := e.SetUserInput(addr, "stale"); err != nil {
		t.Fatalf("SetUserInput: %v", err)
	}
	// Overwriting with a number leaves "stale" interned with no live
	// cell behind it — exactly the drift CollectStrings exists to fix.
	if err := e.SetUserInput(addr, "42"); err != nil {
		t.Fatalf("SetUserInput: %v", err)
	}

	CollectStrings(e.Book.Workbook)

	if _, ok := e.Book.Strings.Lookup("stale"); ok {
		t.Fatalf("\"stale\" survived collection with no live reference")
	}
	if e.Book.Strings.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", e.Book.Strings.Count())
	}
}

func TestCollectStringsCompactsIDs(t *testing.T) {
	e := newEngine(t)
	a := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	b := model.CellAddress{WorksheetID: 1, Row: 0, Column: 1}
	c := model.CellAddress{WorksheetID: 1, Row: 0, Column: 2}
	for _, sc := range []struct {
		addr model.CellAddress
		text string
	}{{a, "first"}, {b, "second"}, {c, "third"}} {
		if err := e.SetUserInput(sc.addr, sc.text); err != nil {
			t.Fatalf("SetUserInput(%s): %v", sc.text, err)
		}
	}
	// Clear the middle reference so the survivors ("first", "third")
	// are no longer contiguous with their original ids.
	if err := e.SetUserInput(b, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}

	remap := CollectStrings(e.Book.Workbook)
	if len(remap) != 2 {
		t.Fatalf("len(remap) = %d, want 2", len(remap))
	}

	if e.Book.Strings.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", e.Book.Strings.Count())
	}
	firstID, ok := e.Book.Strings.Lookup("first")
	if !ok {
		t.Fatalf("first missing after collect")
	}
	if firstID != 1 {
		t.Fatalf("first's compacted id = %d, want 1", firstID)
	}
}
