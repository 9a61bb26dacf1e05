package model

import (
	"fmt"
	"strings"

	"github.com/inkcell/inkcell/internal/locale"
)

// Value is the evaluator's scalar and array value domain (spec §4.5):
// float64 (Number), bool (Boolean), string (String), *Array, *ErrorValue,
// or nil (Empty). It mirrors the teacher's `Primitive any` (vogtb/cell.go)
// but is given its own named type so the model package can attach the
// ErrorValue/Array behavior the spec requires without every caller needing
// to know the representation is `any`.
type Value = any

// ErrorValue is an in-cell spreadsheet error: a stable kind, the cell where
// the error first occurred (its origin), and a free-form message. Grounded
// on the teacher's SpreadsheetError (vogtb/cell.go), generalized from the
// teacher's 8 ad hoc ErrorCode values to the spec's 12-kind locale.ErrorKind
// enum and given an Origin field for provenance tracking.
type ErrorValue struct {
	Kind    locale.ErrorKind
	Origin  CellAddress
	Message string
}

func (e *ErrorValue) Error() string { return e.Message }

// NewError builds an ErrorValue, defaulting Message to the English
// localization of kind when msg is empty.
func NewError(kind locale.ErrorKind, origin CellAddress, msg string) *ErrorValue {
	if msg == "" {
		if lang, err := locale.GetLanguage("en"); err == nil {
			msg = locale.LocalizeError(kind, lang)
		}
	}
	return &ErrorValue{Kind: kind, Origin: origin, Message: msg}
}

// Array is a rectangular, row-major matrix of scalar Values — the result
// of an array literal or a function/operation that fans out over a range,
// and the value a formula spills from its origin cell (spec §4.5).
type Array struct {
	Rows int
	Cols int
	Data []Value // row-major, len == Rows*Cols
}

// NewArray allocates a Rows x Cols array of Empty values.
func NewArray(rows, cols int) *Array {
	return &Array{Rows: rows, Cols: cols, Data: make([]Value, rows*cols)}
}

// At returns the value at (row, col), 0-based.
func (a *Array) At(row, col int) Value {
	if row < 0 || row >= a.Rows || col < 0 || col >= a.Cols {
		return nil
	}
	return a.Data[row*a.Cols+col]
}

// Set stores v at (row, col), 0-based.
func (a *Array) Set(row, col int, v Value) {
	if row < 0 || row >= a.Rows || col < 0 || col >= a.Cols {
		return
	}
	a.Data[row*a.Cols+col] = v
}

// IsError reports whether v is an *ErrorValue.
func IsError(v Value) (*ErrorValue, bool) {
	e, ok := v.(*ErrorValue)
	return e, ok
}

// TypeOrdinal implements the mixed-type comparison ordering from spec §4.5:
// number < string < boolean. Errors and arrays never reach comparison —
// they're handled by error-propagation before ordinal comparison applies.
func TypeOrdinal(v Value) int {
	switch v.(type) {
	case float64:
		return 0
	case string:
		return 1
	case bool:
		return 2
	default:
		return -1 // Empty sorts before everything
	}
}

// Stringify renders v the way the `&` concatenation operator and TEXT()
// coercions do: numbers in general format, booleans as TRUE/FALSE,
// strings verbatim, Empty as "".
func Stringify(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return formatGeneralNumber(t)
	case *ErrorValue:
		return t.Message
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatGeneralNumber(f float64) string {
	s := fmt.Sprintf("%g", f)
	// fmt's %g uses a lowercase "e"; Excel-style general format writes
	// the exponent with an uppercase "E".
	s = strings.Replace(s, "e+", "E+", 1)
	s = strings.Replace(s, "e-", "E-", 1)
	return s
}
