// Package eval ties internal/model's data and internal/ast's expression
// trees together into the dependency-driven calculation engine spec §4
// describes, generalizing the teacher's Spreadsheet/calculateCell/
// CalculationStack (vogtb/sheet.go) from a single concrete struct into
// a layered Book (data) + Engine (calculation) split, since ast.Node
// trees cannot live inside internal/model without an import cycle (see
// internal/model/workbook.go's doc comment).
package eval

import (
	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/model"
)

// Book composes a Workbook with the formula tree table that cannot live
// inside internal/model. It is the unit internal/xlsx and internal/store
// persist and internal/usermodel wraps.
type Book struct {
	*model.Workbook
	Formulas *ast.FormulaTable
}

// NewBook creates an empty Book with no sheets.
func NewBook() *Book {
	return &Book{Workbook: model.NewWorkbook(), Formulas: ast.NewFormulaTable()}
}
