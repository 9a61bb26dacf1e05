package eval

import (
	"testing"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

func newTestEngine(t *testing.T) (*Engine, uint32) {
	t.Helper()
	e, err := NewEngine("en", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	sheet, err := e.AddSheet("Sheet1")
	if err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	return e, sheet
}

func addr(sheet, row, col uint32) model.CellAddress {
	return model.CellAddress{WorksheetID: sheet, Row: row, Column: col}
}

func setCell(t *testing.T, e *Engine, a model.CellAddress, text string) {
	t.Helper()
	if err := e.SetUserInput(a, text); err != nil {
		t.Fatalf("SetUserInput(%v, %q): %v", a, text, err)
	}
}

func numValue(t *testing.T, v model.Value) float64 {
	t.Helper()
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("value = %#v (%T), want float64", v, v)
	}
	return f
}

func errKind(t *testing.T, v model.Value) locale.ErrorKind {
	t.Helper()
	e, ok := model.IsError(v)
	if !ok {
		t.Fatalf("value = %#v (%T), want an error", v, v)
	}
	return e.Kind
}

// TestScenarioSumAndDivByZero is spec §8 end-to-end scenario 1.
func TestScenarioSumAndDivByZero(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 0, 0), "1")
	setCell(t, e, addr(sheet, 1, 0), "2")
	setCell(t, e, addr(sheet, 2, 0), "3")
	setCell(t, e, addr(sheet, 0, 1), "=SUM(A1:A3)")
	setCell(t, e, addr(sheet, 1, 1), "=B1/0")

	b1, err := e.GetCellValue(addr(sheet, 0, 1))
	if err != nil {
		t.Fatalf("GetCellValue(B1): %v", err)
	}
	if numValue(t, b1) != 6 {
		t.Fatalf("B1 = %v, want 6", b1)
	}
	b2, err := e.GetCellValue(addr(sheet, 1, 1))
	if err != nil {
		t.Fatalf("GetCellValue(B2): %v", err)
	}
	if errKind(t, b2) != locale.ErrDiv {
		t.Fatalf("B2 kind = %v, want ErrDiv", b2)
	}

	grid := e.Book.Grid(sheet)
	var total, formulas, errs int
	grid.Each(sheet, func(_ model.CellAddress, c *model.Cell) {
		if c == nil || c.IsEmpty() {
			return
		}
		total++
		if c.IsFormula() {
			formulas++
		}
		if _, ok := model.IsError(c.Value); ok {
			errs++
		}
	})
	if total != 5 || formulas != 2 || errs != 1 {
		t.Fatalf("total=%d formulas=%d errs=%d, want 5 2 1", total, formulas, errs)
	}
}

// TestScenarioSpillIntoRowAndSurvivesLaterWrite is spec §8 end-to-end
// scenario 2: a 1x3 array spills C3:E3, and a later unrelated write
// must not disturb it.
func TestScenarioSpillIntoRowAndSurvivesLaterWrite(t *testing.T) {
	e, sheet := newTestEngine(t)
	c3 := addr(sheet, 2, 2)
	setCell(t, e, c3, "={1,2,3}")

	v, err := e.GetCellValue(c3)
	if err != nil {
		t.Fatalf("GetCellValue(C3): %v", err)
	}
	if numValue(t, v) != 1 {
		t.Fatalf("C3 = %v, want 1", v)
	}
	d3, err := e.GetCellValue(addr(sheet, 2, 3))
	if err != nil {
		t.Fatalf("GetCellValue(D3): %v", err)
	}
	if numValue(t, d3) != 2 {
		t.Fatalf("D3 = %v, want 2", d3)
	}
	e3, err := e.GetCellValue(addr(sheet, 2, 4))
	if err != nil {
		t.Fatalf("GetCellValue(E3): %v", err)
	}
	if numValue(t, e3) != 3 {
		t.Fatalf("E3 = %v, want 3", e3)
	}

	setCell(t, e, addr(sheet, 7, 3), "42")

	d3Again, err := e.GetCellValue(addr(sheet, 2, 3))
	if err != nil {
		t.Fatalf("GetCellValue(D3) after D8 write: %v", err)
	}
	if numValue(t, d3Again) != 2 {
		t.Fatalf("D3 after unrelated write = %v, want still 2", d3Again)
	}
}

// TestSpillBlockedByOccupiedCellReportsSpillError covers the blocked
// half of spec §4.5's spill-rectangle rule: an occupied neighbor yields
// #SPILL! at the origin and no ghosts are written.
func TestSpillBlockedByOccupiedCellReportsSpillError(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 2, 3), "99") // D3 occupied ahead of the spill
	c3 := addr(sheet, 2, 2)
	setCell(t, e, c3, "={1,2,3}")

	v, err := e.GetCellValue(c3)
	if err != nil {
		t.Fatalf("GetCellValue(C3): %v", err)
	}
	if errKind(t, v) != locale.ErrSpill {
		t.Fatalf("C3 = %#v, want #SPILL!", v)
	}
	d3, err := e.GetCellValue(addr(sheet, 2, 3))
	if err != nil {
		t.Fatalf("GetCellValue(D3): %v", err)
	}
	if numValue(t, d3) != 99 {
		t.Fatalf("D3 = %v, want untouched 99", d3)
	}
}

// TestWritingGhostCellBreaksSpill covers spec §4.5's "editing any ghost
// cell breaks the spill" rule.
func TestWritingGhostCellBreaksSpill(t *testing.T) {
	e, sheet := newTestEngine(t)
	c3 := addr(sheet, 2, 2)
	setCell(t, e, c3, "={1,2,3}")
	if _, err := e.GetCellValue(c3); err != nil {
		t.Fatalf("GetCellValue(C3): %v", err)
	}

	setCell(t, e, addr(sheet, 2, 3), "hello") // overwrite the D3 ghost directly

	v, err := e.GetCellValue(c3)
	if err != nil {
		t.Fatalf("GetCellValue(C3): %v", err)
	}
	if errKind(t, v) != locale.ErrSpill {
		t.Fatalf("C3 after breaking its spill = %#v, want #SPILL!", v)
	}
	d3, err := e.GetCellValue(addr(sheet, 2, 3))
	if err != nil {
		t.Fatalf("GetCellValue(D3): %v", err)
	}
	if s, ok := d3.(string); !ok || s != "hello" {
		t.Fatalf("D3 = %#v, want the literal \"hello\"", d3)
	}
}

// TestScenarioLocaleSensitiveDecimalSeparator is spec §8 scenario 3.
func TestScenarioLocaleSensitiveDecimalSeparator(t *testing.T) {
	de, sheet := func() (*Engine, uint32) {
		e, err := NewEngine("de", "en")
		if err != nil {
			t.Fatalf("NewEngine(de): %v", err)
		}
		s, err := e.AddSheet("Sheet1")
		if err != nil {
			t.Fatalf("AddSheet: %v", err)
		}
		return e, s
	}()
	setCell(t, de, addr(sheet, 0, 0), "1,23")
	v, err := de.GetCellValue(addr(sheet, 0, 0))
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if numValue(t, v) != 1.23 {
		t.Fatalf("A1 under de locale = %v, want 1.23", v)
	}
}

// TestScenarioWeekdayType15 is spec §8 scenario 4.
func TestScenarioWeekdayType15(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 0, 0), "=WEEKDAY(44561,15)")
	v, err := e.GetCellValue(addr(sheet, 0, 0))
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if numValue(t, v) != 1 {
		t.Fatalf("WEEKDAY(44561,15) = %v, want 1", v)
	}
}

// TestScenarioIntTruncatesTowardNegativeInfinity is spec §8 scenario 6.
func TestScenarioIntTruncatesTowardNegativeInfinity(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 0, 0), "=INT(-5.7)")
	v, err := e.GetCellValue(addr(sheet, 0, 0))
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if numValue(t, v) != -6 {
		t.Fatalf("INT(-5.7) = %v, want -6", v)
	}
}

// TestScenarioCircularReferenceSelf is spec §8 scenario 7 (direct case).
func TestScenarioCircularReferenceSelf(t *testing.T) {
	e, sheet := newTestEngine(t)
	a1 := addr(sheet, 0, 0)
	setCell(t, e, a1, "=A1+1")
	v, err := e.GetCellValue(a1)
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if errKind(t, v) != locale.ErrCirc {
		t.Fatalf("A1 = %#v, want #CIRC!", v)
	}
}

// TestScenarioCircularReferenceChainMarksEveryMember is the chained
// half of spec §8 scenario 7: every cell in a cycle reports CIRC, not
// just the one that closes the loop.
func TestScenarioCircularReferenceChainMarksEveryMember(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 0, 0), "=A2")
	setCell(t, e, addr(sheet, 1, 0), "=A3")
	setCell(t, e, addr(sheet, 2, 0), "=A4")
	setCell(t, e, addr(sheet, 3, 0), "=B6")
	setCell(t, e, addr(sheet, 5, 1), "=A1")

	for _, a := range []model.CellAddress{
		addr(sheet, 0, 0), addr(sheet, 1, 0), addr(sheet, 2, 0), addr(sheet, 3, 0), addr(sheet, 5, 1),
	} {
		v, err := e.GetCellValue(a)
		if err != nil {
			t.Fatalf("GetCellValue(%v): %v", a, err)
		}
		if errKind(t, v) != locale.ErrCirc {
			t.Fatalf("%v = %#v, want #CIRC!", a, v)
		}
	}
}

// TestImplicitIntersectionRejectsCrossSheetRange covers call.go's fixed
// cross-sheet precondition: a single-column range on a different sheet
// than the formula's origin must not silently intersect against the
// origin's own row.
func TestImplicitIntersectionRejectsCrossSheetRange(t *testing.T) {
	e, sheet1 := newTestEngine(t)
	sheet2, err := e.AddSheet("Sheet2")
	if err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	setCell(t, e, addr(sheet2, 0, 0), "10")
	setCell(t, e, addr(sheet2, 1, 0), "20")
	setCell(t, e, addr(sheet1, 0, 0), "=@Sheet2!A1:A2")

	v, err := e.GetCellValue(addr(sheet1, 0, 0))
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if errKind(t, v) != locale.ErrValue {
		t.Fatalf("cross-sheet implicit intersection = %#v, want #VALUE!", v)
	}
}

// TestEmptyCellReadsAsZeroAndBlank covers spec §8's empty-cell coercion
// invariant.
func TestEmptyCellReadsAsZeroAndBlank(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 0, 0), "=A5+1")
	v, err := e.GetCellValue(addr(sheet, 0, 0))
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if numValue(t, v) != 1 {
		t.Fatalf("A5 (empty) coerced in arithmetic = %v, want 1 (0+1)", v)
	}

	setCell(t, e, addr(sheet, 1, 0), `=A5&"x"`)
	v2, err := e.GetCellValue(addr(sheet, 1, 0))
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if s, ok := v2.(string); !ok || s != "x" {
		t.Fatalf("A5 (empty) coerced in text context = %#v, want \"x\"", v2)
	}
}

func TestNoCellLeftEvaluatingAfterEvaluate(t *testing.T) {
	e, sheet := newTestEngine(t)
	setCell(t, e, addr(sheet, 0, 0), "1")
	setCell(t, e, addr(sheet, 0, 1), "=A1+1")
	if err := e.Evaluate(); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	grid := e.Book.Grid(sheet)
	grid.Each(sheet, func(a model.CellAddress, c *model.Cell) {
		if c.IsFormula() && c.State == model.StateEvaluating {
			t.Fatalf("cell %v left in StateEvaluating after Evaluate", a)
		}
	})
}
