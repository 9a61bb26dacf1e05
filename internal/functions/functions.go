// Package functions implements the spreadsheet function library (spec
// §5): every builtin is a Func registered under its canonical English
// name and dispatched by Call. Grounded on the teacher's
// BuiltInFunctions (vogtb/builtin.go), whose Call(name string, args
// ...any) switch this package generalizes to a registration map so
// internal/eval never needs a giant switch of its own, and whose
// Clock/RandomGenerator interfaces are kept nearly verbatim as the
// Context a function receives instead of being hidden inside the
// function table.
package functions

import (
	"strings"
	"time"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// Context is the slice of evaluator state a function needs: the clock
// and random source for volatile functions, the locale for
// locale-sensitive coercions, and the address of the cell the call is
// being evaluated from (for error provenance).
type Context interface {
	Clock() Clock
	Random() RandomSource
	Locale() *locale.Locale
	Origin() model.CellAddress
}

// Clock supplies wall-clock time, swappable in tests. Grounded on the
// teacher's Clock/WallClock (vogtb/builtin.go).
type Clock interface {
	Now() time.Time
}

// RandomSource supplies [0,1) floats for RAND/RANDBETWEEN, swappable in
// tests. Grounded on the teacher's RandomGenerator/DefaultRandomGenerator
// (vogtb/builtin.go).
type RandomSource interface {
	Float64() float64
}

// Func is one builtin implementation. Arguments arrive already evaluated
// (ranges as *model.Array); a function that needs to short-circuit
// unevaluated branches (IF, IFS, CHOOSE, SWITCH, IFERROR, IFNA) is
// special-cased in internal/eval before Call is reached, since this
// signature has no way to defer evaluation of an argument.
type Func func(args []model.Value, ctx Context) model.Value

var registry = map[string]Func{}

// Register adds fn to the library under name (case-insensitive,
// normalized to upper case — the canonical form used throughout the ast
// and stringifier packages).
func Register(name string, fn Func) { registry[strings.ToUpper(name)] = fn }

// Call dispatches name with args, returning #NAME? if name is not a
// registered builtin.
func Call(name string, args []model.Value, ctx Context) model.Value {
	fn, ok := registry[strings.ToUpper(name)]
	if !ok {
		return errVal(ctx, locale.ErrName)
	}
	return fn(args, ctx)
}

// Known reports whether name is a registered builtin, for the parser's
// identifier-vs-name disambiguation and for IS.FUNCTION style lookups.
func Known(name string) bool {
	_, ok := registry[strings.ToUpper(name)]
	return ok
}

func errVal(ctx Context, kind locale.ErrorKind) *model.ErrorValue {
	return model.NewError(kind, ctx.Origin(), "")
}
