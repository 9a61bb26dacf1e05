package depgraph

import (
	"sort"
	"testing"

	"github.com/inkcell/inkcell/internal/model"
)

func a(row, col uint32) model.CellAddress {
	return model.CellAddress{WorksheetID: 1, Row: row, Column: col}
}

func sortedRows(addrs []model.CellAddress) []uint32 {
	rows := make([]uint32, len(addrs))
	for i, addr := range addrs {
		rows[i] = addr.Row
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })
	return rows
}

func TestRecordBuildsBothDirections(t *testing.T) {
	g := New()
	b1, a1, a2 := a(1, 1), a(0, 0), a(0, 1)
	g.Record(b1, a1)
	g.Record(b1, a2)

	precedents := sortedRows(g.Precedents(b1))
	if len(precedents) != 2 || precedents[0] != 0 || precedents[1] != 0 {
		t.Fatalf("Precedents(B1) = %v", g.Precedents(b1))
	}
	deps := g.Dependents(a1)
	if len(deps) != 1 || deps[0] != b1 {
		t.Fatalf("Dependents(A1) = %v, want [B1]", deps)
	}
}

func TestVolatileTracking(t *testing.T) {
	g := New()
	c1 := a(2, 2)
	if g.IsVolatile(c1) {
		t.Fatalf("fresh graph reports %v volatile", c1)
	}
	g.MarkVolatile(c1)
	if !g.IsVolatile(c1) {
		t.Fatalf("MarkVolatile did not stick")
	}
	cells := g.VolatileCells()
	if len(cells) != 1 || cells[0] != c1 {
		t.Fatalf("VolatileCells() = %v, want [%v]", cells, c1)
	}
}

func TestResetClearsEverything(t *testing.T) {
	g := New()
	b1, a1 := a(1, 0), a(0, 0)
	g.Record(b1, a1)
	g.MarkVolatile(b1)

	g.Reset()

	if len(g.Precedents(b1)) != 0 {
		t.Fatalf("Precedents(B1) after Reset = %v, want empty", g.Precedents(b1))
	}
	if len(g.Dependents(a1)) != 0 {
		t.Fatalf("Dependents(A1) after Reset = %v, want empty", g.Dependents(a1))
	}
	if g.IsVolatile(b1) {
		t.Fatalf("B1 still volatile after Reset")
	}
}
