package model

// Workbook is the root container owning every table that does not need
// to reference the expression-tree package: sheets, their grids, shared
// strings, named ranges, and styles (spec §3 "Data Model"). Grounded on
// the teacher's Storage (vogtb/storage.go), which groups the same
// tables plus the formula table; the formula table is composed
// alongside this one at the internal/eval layer instead (see
// eval.Book), because ast.FormulaTable stores ast.Node trees and ast
// already imports model — model cannot import ast back without a cycle.
type Workbook struct {
	Worksheets  *WorksheetTable
	NamedRanges *NamedRangeTable
	Strings     *StringTable
	Styles      *StyleTable

	grids     map[uint32]*SheetGrid // worksheet id -> cell grid
	sheetMeta map[uint32]*SheetMeta // worksheet id -> visibility/frozen-pane/sizing metadata
}

// NewWorkbook creates an empty workbook with no sheets.
func NewWorkbook() *Workbook {
	return &Workbook{
		Worksheets:  NewWorksheetTable(),
		NamedRanges: NewNamedRangeTable(),
		Strings:     NewStringTable(),
		Styles:      NewStyleTable(),
		grids:       make(map[uint32]*SheetGrid),
	}
}

// AddSheet creates a new worksheet with an empty grid and returns its id.
func (wb *Workbook) AddSheet(name string) (uint32, error) {
	if err := ValidateSheetName(name); err != nil {
		return 0, err
	}
	id, err := wb.Worksheets.Add(name)
	if err != nil {
		return 0, err
	}
	wb.grids[id] = NewSheetGrid()
	return id, nil
}

// Grid returns the cell grid for a worksheet id, creating one if the
// worksheet is known but has no grid yet (defensive: should not happen
// once AddSheet is the only construction path).
func (wb *Workbook) Grid(sheetID uint32) *SheetGrid {
	g, ok := wb.grids[sheetID]
	if !ok {
		g = NewSheetGrid()
		wb.grids[sheetID] = g
	}
	return g
}

// RemoveSheet deletes a worksheet and its grid.
func (wb *Workbook) RemoveSheet(name string) (uint32, bool) {
	id, ok := wb.Worksheets.Remove(name)
	if ok {
		delete(wb.grids, id)
		delete(wb.sheetMeta, id)
	}
	return id, ok
}
