package model

import "testing"

func TestCellIsEmpty(t *testing.T) {
	var c Cell
	if !c.IsEmpty() {
		t.Fatalf("zero-value Cell is not empty")
	}
	c.Value = 0.0
	if c.IsEmpty() {
		t.Fatalf("cell holding 0.0 reported empty")
	}
	c2 := Cell{FormulaID: 1}
	if c2.IsEmpty() {
		t.Fatalf("formula cell reported empty")
	}
}

func TestColumnNameAndParseA1RefRoundTrip(t *testing.T) {
	cases := []struct {
		col uint32
		row uint32
	}{
		{0, 0}, {25, 0}, {26, 0}, {701, 0}, {0, 999},
	}
	for _, c := range cases {
		ref := ColumnName(c.col) + itoa(c.row+1)
		gotCol, gotRow, ok := ParseA1Ref(ref)
		if !ok {
			t.Fatalf("ParseA1Ref(%q) failed to parse", ref)
		}
		if gotCol != c.col || gotRow != c.row {
			t.Fatalf("ParseA1Ref(%q) = (%d,%d), want (%d,%d)", ref, gotCol, gotRow, c.col, c.row)
		}
	}
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	return string(buf)
}

func TestParseA1RefRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "A", "1", "1A", "A0"} {
		if _, _, ok := ParseA1Ref(s); ok {
			t.Fatalf("ParseA1Ref(%q) unexpectedly succeeded", s)
		}
	}
}

func TestSheetGridGetSetAndCount(t *testing.T) {
	g := NewSheetGrid()
	if g.Get(0, 0) != nil {
		t.Fatalf("empty grid returned a non-nil cell")
	}
	g.Set(0, 0, &Cell{Value: 1.0})
	if g.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", g.Count())
	}
	if got := g.Get(0, 0); got == nil || got.Value != 1.0 {
		t.Fatalf("Get(0,0) = %+v", got)
	}
}

func TestSheetGridGhostOverlayIsSeparateFromCells(t *testing.T) {
	g := NewSheetGrid()
	origin := CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	g.SetGhost(0, 1, origin, 2.0)

	if g.Count() != 0 {
		t.Fatalf("Count() = %d after SetGhost, want 0 (ghosts must not count as cells)", g.Count())
	}
	gotOrigin, v, ok := g.Ghost(0, 1)
	if !ok || gotOrigin != origin || v != 2.0 {
		t.Fatalf("Ghost(0,1) = (%v, %v, %v)", gotOrigin, v, ok)
	}
	if !g.IsOccupied(0, 1, CellAddress{WorksheetID: 1, Row: 9, Column: 9}) {
		t.Fatalf("IsOccupied should report true for a ghost belonging to a different origin")
	}
	if g.IsOccupied(0, 1, origin) {
		t.Fatalf("IsOccupied should exclude a ghost belonging to its own origin")
	}

	g.ClearGhost(0, 1)
	if _, _, ok := g.Ghost(0, 1); ok {
		t.Fatalf("ghost still present after ClearGhost")
	}
}

func TestSheetGridClearGhostsInRectangle(t *testing.T) {
	g := NewSheetGrid()
	origin := CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	g.SetGhost(0, 1, origin, 1.0)
	g.SetGhost(0, 2, origin, 2.0)
	g.SetGhost(1, 1, origin, 3.0) // outside the 1x3 rectangle cleared below

	g.ClearGhostsIn(0, 0, 1, 3)

	if _, _, ok := g.Ghost(0, 1); ok {
		t.Fatalf("ghost at (0,1) survived ClearGhostsIn")
	}
	if _, _, ok := g.Ghost(0, 2); ok {
		t.Fatalf("ghost at (0,2) survived ClearGhostsIn")
	}
	if _, _, ok := g.Ghost(1, 1); !ok {
		t.Fatalf("ghost at (1,1) outside the cleared rectangle was removed")
	}
}
