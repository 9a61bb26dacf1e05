package eval

import (
	"github.com/inkcell/inkcell/internal/format"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
	"github.com/pkg/errors"
)

// GetFormattedCellValue returns addr's value rendered under its cell
// style's number format (spec §6's get_formatted_cell_value), falling
// back to model.Stringify for text/boolean/error values a number
// format doesn't apply to.
func (e *Engine) GetFormattedCellValue(addr model.CellAddress) (string, error) {
	v, err := e.evalCell(addr)
	if err != nil {
		return "", err
	}
	grid := e.Book.Grid(addr.WorksheetID)
	cell := grid.Get(addr.Row, addr.Column)
	pattern := "General"
	if cell != nil {
		pattern = e.Book.Styles.NumberFormatFor(cell.StyleID)
	}
	switch n := v.(type) {
	case float64:
		return format.Default.FormatNumber(n, pattern, e.Locale), nil
	default:
		return model.Stringify(v), nil
	}
}

// GetCellContent returns the text a host would show in the formula bar:
// the formula source if the cell holds one, otherwise the literal
// value rendered as text.
func (e *Engine) GetCellContent(addr model.CellAddress) string {
	if text, ok := e.GetFormula(addr); ok {
		return text
	}
	v, _ := e.evalCell(addr)
	return model.Stringify(v)
}

// IsEmptyCell reports whether addr has neither a formula nor a literal
// value.
func (e *Engine) IsEmptyCell(addr model.CellAddress) bool {
	cell := e.Book.Grid(addr.WorksheetID).Get(addr.Row, addr.Column)
	return cell == nil || cell.IsEmpty()
}

// ClearCellContents removes addr's formula or literal value but keeps
// its style, the way Delete (not Ctrl+Delete-all) behaves.
func (e *Engine) ClearCellContents(addr model.CellAddress) {
	e.breakSpillAt(addr)
	grid := e.Book.Grid(addr.WorksheetID)
	cell := grid.Get(addr.Row, addr.Column)
	styleID := uint32(0)
	if cell != nil {
		styleID = cell.StyleID
	}
	e.Book.Formulas.Detach(addr)
	grid.Set(addr.Row, addr.Column, &model.Cell{StyleID: styleID})
	e.invalidateAll()
}

// ClearCellAll removes addr's formula/value and resets its style to
// the default.
func (e *Engine) ClearCellAll(addr model.CellAddress) {
	e.breakSpillAt(addr)
	e.Book.Formulas.Detach(addr)
	e.Book.Grid(addr.WorksheetID).Set(addr.Row, addr.Column, nil)
	e.invalidateAll()
}

// ClearRangeContents applies ClearCellContents to every cell in rng.
func (e *Engine) ClearRangeContents(rng model.RangeAddress) {
	for r := rng.StartRow; r <= rng.EndRow; r++ {
		for c := rng.StartColumn; c <= rng.EndColumn; c++ {
			e.ClearCellContents(model.CellAddress{WorksheetID: rng.WorksheetID, Row: r, Column: c})
		}
	}
}

// ClearRangeAll applies ClearCellAll to every cell in rng.
func (e *Engine) ClearRangeAll(rng model.RangeAddress) {
	for r := rng.StartRow; r <= rng.EndRow; r++ {
		for c := rng.StartColumn; c <= rng.EndColumn; c++ {
			e.ClearCellAll(model.CellAddress{WorksheetID: rng.WorksheetID, Row: r, Column: c})
		}
	}
}

// DeleteSheet removes a worksheet by name.
func (e *Engine) DeleteSheet(name string) error {
	if _, ok := e.Book.RemoveSheet(name); !ok {
		return errors.Errorf("eval: no such sheet %q", name)
	}
	return nil
}

// RenameSheet renames a worksheet without changing its stable id.
func (e *Engine) RenameSheet(oldName, newName string) error {
	return e.Book.Worksheets.Rename(oldName, newName)
}

// HideSheet marks a worksheet hidden from a host UI's tab bar.
func (e *Engine) HideSheet(sheetID uint32) {
	e.Book.SheetMeta(sheetID).Hidden = true
}

// UnhideSheet marks a worksheet visible again.
func (e *Engine) UnhideSheet(sheetID uint32) {
	e.Book.SheetMeta(sheetID).Hidden = false
}

// SetFrozenRows sets the number of rows frozen at the top of sheetID.
func (e *Engine) SetFrozenRows(sheetID, rows uint32) {
	e.Book.SheetMeta(sheetID).FrozenRows = rows
}

// SetFrozenColumns sets the number of columns frozen at the left of sheetID.
func (e *Engine) SetFrozenColumns(sheetID, cols uint32) {
	e.Book.SheetMeta(sheetID).FrozenColumns = cols
}

// SetColumnWidth overrides one column's display width, in characters.
func (e *Engine) SetColumnWidth(sheetID, col uint32, width float64) {
	e.Book.SheetMeta(sheetID).ColumnWidths[col] = width
}

// SetRowHeight overrides one row's display height, in points.
func (e *Engine) SetRowHeight(sheetID, row uint32, height float64) {
	e.Book.SheetMeta(sheetID).RowHeights[row] = height
}

// SetColumnStyle applies a default style id to every cell in a column
// that doesn't already have one of its own.
func (e *Engine) SetColumnStyle(sheetID, col, styleID uint32) {
	e.Book.SheetMeta(sheetID).ColumnStyles[col] = styleID
}

// DeleteColumnStyle removes a column's default style override.
func (e *Engine) DeleteColumnStyle(sheetID, col uint32) {
	delete(e.Book.SheetMeta(sheetID).ColumnStyles, col)
}

// SetCellStyle assigns a composed style id to addr.
func (e *Engine) SetCellStyle(addr model.CellAddress, styleID uint32) {
	grid := e.Book.Grid(addr.WorksheetID)
	cell := grid.Get(addr.Row, addr.Column)
	if cell == nil {
		cell = &model.Cell{}
	}
	cell.StyleID = styleID
	grid.Set(addr.Row, addr.Column, cell)
}

// GetStyleForCell returns addr's style id, falling back to its
// column's default style, then 0.
func (e *Engine) GetStyleForCell(addr model.CellAddress) uint32 {
	cell := e.Book.Grid(addr.WorksheetID).Get(addr.Row, addr.Column)
	if cell != nil && cell.StyleID != 0 {
		return cell.StyleID
	}
	if styleID, ok := e.Book.SheetMeta(addr.WorksheetID).ColumnStyles[addr.Column]; ok {
		return styleID
	}
	return 0
}

// SetLanguage switches the engine's function-name and boolean/error
// surface language; formulas already parsed into ast.Node trees are
// unaffected, only future parsing and stringification.
func (e *Engine) SetLanguage(languageID string) error {
	lang, err := locale.GetLanguage(languageID)
	if err != nil {
		return err
	}
	e.Language = lang
	return nil
}

// SetCurrency overrides the locale's currency symbol used by the "$"
// number-format family, without affecting its decimal/thousand/list
// separators.
func (e *Engine) SetCurrency(symbol string) {
	cp := *e.Locale
	cp.CurrencySymbol = symbol
	e.Locale = &cp
}
