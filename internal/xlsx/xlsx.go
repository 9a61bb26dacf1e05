// Package xlsx imports and exports workbooks through the OOXML
// spreadsheet format, using a real XLSX library rather than hand-rolled
// zip/XML handling. Grounded on artukn-excelize/each.go's
// shared-formula-cache walking pattern (EachCellFormulaValue): that
// file walks a fork's internal cell representation directly, which
// this package can't reach through the public github.com/xuri/
// excelize/v2 API, so the same idea — one pass per sheet, formula text
// and computed value read together — is rebuilt here on top of
// File.GetRows/GetCellFormula/GetCellValue instead.
package xlsx

import (
	"github.com/xuri/excelize/v2"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
)

// Import reads an XLSX file into a fresh Book. Every non-empty cell is
// replayed through Engine.SetUserInput exactly as a user would have
// typed it — a formula's "=..." text if present, otherwise the cell's
// displayed value — so the same lexer/parser/coercion path governs
// both manual entry and file import.
func Import(path string, e *eval.Engine) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, sheetName := range f.GetSheetList() {
		sheetID, ok := e.Book.Worksheets.IDByName(sheetName)
		if !ok {
			var err error
			sheetID, err = e.AddSheet(sheetName)
			if err != nil {
				return err
			}
		}
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return err
		}
		for r, row := range rows {
			for c, cellText := range row {
				if cellText == "" {
					continue
				}
				cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				addr := model.CellAddress{WorksheetID: sheetID, Row: uint32(r), Column: uint32(c)}
				formula, err := f.GetCellFormula(sheetName, cellName)
				if err != nil {
					return err
				}
				if formula != "" {
					if err := e.SetUserInput(addr, "="+formula); err != nil {
						return err
					}
					continue
				}
				if err := e.SetUserInput(addr, cellText); err != nil {
					return err
				}
			}
		}
	}
	return e.Evaluate()
}

// Export writes a Book to path. Every formula cell writes both its
// source formula (so the file stays editable in a real spreadsheet
// program) and its last-computed value, and every literal cell writes
// its value directly — mirroring how a formula-aware OOXML writer must
// populate both <f> and <v> for a formula cell.
func Export(path string, e *eval.Engine) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetIDs := e.Book.Worksheets.OrderedIDs()
	for i, sheetID := range sheetIDs {
		name, _ := e.Book.Worksheets.NameByID(sheetID)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		grid := e.Book.Grid(sheetID)
		rng, ok := grid.UsedRange(sheetID)
		if !ok {
			continue
		}
		for _, addr := range rng.Cells() {
			cellName, err := excelize.CoordinatesToCellName(int(addr.Column)+1, int(addr.Row)+1)
			if err != nil {
				return err
			}
			if text, isFormula := e.GetFormula(addr); isFormula {
				if err := f.SetCellFormula(name, cellName, trimLeadingEquals(text)); err != nil {
					return err
				}
				v, err := e.GetCellValue(addr)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cellName, v); err != nil {
					return err
				}
				continue
			}
			v, err := e.GetCellValue(addr)
			if err != nil {
				return err
			}
			if v == nil {
				continue
			}
			if err := f.SetCellValue(name, cellName, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func trimLeadingEquals(text string) string {
	if len(text) > 0 && text[0] == '=' {
		return text[1:]
	}
	return text
}
