// Package ast defines the formula expression tree (spec §3 "Expression
// tree") produced by the parser and walked by the evaluator and
// stringifier. Node types are data-only — evaluation lives in
// internal/eval, rendering in internal/stringifier — so this package has
// no dependency on either, avoiding the import cycle the teacher's
// single-package `ASTNode.Eval(*Spreadsheet)` design sidesteps only by
// being one package (vogtb/parser.go).
package ast

import "github.com/inkcell/inkcell/internal/model"

// Node is any expression tree node. Position reports where in the
// original source text the node began, for error messages.
type Node interface {
	Position() int
}

// BinaryOp enumerates binary operators, matching spec §3 exactly plus the
// range-union/intersect operators the teacher's BinaryOp never modeled
// (vogtb/lexer.go only has arithmetic/comparison).
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPower
	OpConcat
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpUnion     // ','  between ranges
	OpIntersect // ' '  between ranges
	OpRange     // ':'  range constructor
)

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpPlus UnaryOp = iota
	OpNegate
	OpPercent // postfix '%'
)

// NumberNode is a numeric literal.
type NumberNode struct {
	Value float64
	Pos   int
}

func (n *NumberNode) Position() int { return n.Pos }

// StringNode is a string literal.
type StringNode struct {
	Value string
	Pos   int
}

func (n *StringNode) Position() int { return n.Pos }

// BooleanNode is a TRUE/FALSE literal (under whichever language it was
// parsed in — the tree always stores the Go bool, not the surface text).
type BooleanNode struct {
	Value bool
	Pos   int
}

func (n *BooleanNode) Position() int { return n.Pos }

// ErrorLitNode is a `#REF!`-style error literal written directly into a
// formula, e.g. `=IF(A1>0, 1, #N/A)`.
type ErrorLitNode struct {
	Err *model.ErrorValue
	Pos int
}

func (n *ErrorLitNode) Position() int { return n.Pos }

// CellRefNode is a single-cell reference. Sheet is resolved to a stable
// worksheet id at parse time (spec §4.3: "Range endpoints are resolved to
// CellReferenceIndex at parse time"). The per-axis absolute/relative
// flags matter only for stringification and for copy/paste-style
// reference adjustment, not for evaluation.
type CellRefNode struct {
	Sheet        uint32
	Row, Column  int32 // signed: RC mode permits negative relative offsets before resolution
	AbsRow       bool
	AbsColumn    bool
	SheetLiteral string // the sheet name as written, for re-stringifying without a lookup
	Pos          int
}

func (n *CellRefNode) Position() int { return n.Pos }

// ToAddress resolves n against the current evaluating cell (for relative
// components) into a concrete model.CellAddress. Absolute axes ignore
// origin entirely.
func (n *CellRefNode) ToAddress(origin model.CellAddress) model.CellAddress {
	row := n.Row
	col := n.Column
	if !n.AbsRow {
		row += int32(origin.Row)
	}
	if !n.AbsColumn {
		col += int32(origin.Column)
	}
	sheet := n.Sheet
	if sheet == 0 {
		sheet = origin.WorksheetID
	}
	return model.CellAddress{WorksheetID: sheet, Row: uint32(row), Column: uint32(col)}
}

// RangeNode is a `:`-joined range reference, e.g. `A1:B10` or
// `Sheet2!A:A`.
type RangeNode struct {
	Left, Right *CellRefNode
	Pos         int
}

func (n *RangeNode) Position() int { return n.Pos }

// ToRangeAddress resolves n against origin into a concrete
// model.RangeAddress.
func (n *RangeNode) ToRangeAddress(origin model.CellAddress) model.RangeAddress {
	l := n.Left.ToAddress(origin)
	r := n.Right.ToAddress(origin)
	return model.RangeAddress{
		WorksheetID: l.WorksheetID,
		StartRow:    l.Row, StartColumn: l.Column,
		EndRow: r.Row, EndColumn: r.Column,
	}.Normalized()
}

// NamedRangeNode is a reference to a workbook- or sheet-scoped defined
// name.
type NamedRangeNode struct {
	Name string
	Pos  int
}

func (n *NamedRangeNode) Position() int { return n.Pos }

// BinaryOpNode applies a binary operator to two subtrees.
type BinaryOpNode struct {
	Op          BinaryOp
	Left, Right Node
	Pos         int
}

func (n *BinaryOpNode) Position() int { return n.Pos }

// UnaryOpNode applies a unary operator to one subtree.
type UnaryOpNode struct {
	Op      UnaryOp
	Operand Node
	Pos     int
}

func (n *UnaryOpNode) Position() int { return n.Pos }

// FunctionCallNode is a call to a canonical (already-resolved) function
// name with argument subtrees.
type FunctionCallNode struct {
	Name string // canonical name, already resolved from the source language
	Args []Node
	Pos  int
}

func (n *FunctionCallNode) Position() int { return n.Pos }

// ArrayLitNode is a rectangular, row-major array literal, e.g. `{1,2;3,4}`.
type ArrayLitNode struct {
	Rows, Cols int
	Elements   []Node // len == Rows*Cols, row-major
	Pos        int
}

func (n *ArrayLitNode) Position() int { return n.Pos }

// ImplicitIntersectionNode is the `@`-prefixed forced reduction of a range
// to a single cell (spec §4.5 "implicit intersection").
type ImplicitIntersectionNode struct {
	Operand Node
	Pos     int
}

func (n *ImplicitIntersectionNode) Position() int { return n.Pos }

// StructuredRefNode is a table/structured reference, e.g. `Table1[Column]`.
type StructuredRefNode struct {
	Table  string
	Column string // empty means "whole table"
	Pos    int
}

func (n *StructuredRefNode) Position() int { return n.Pos }
