package functions

import (
	"strconv"
	"strings"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// Num coerces v to a float64, following the same widening rules the
// arithmetic operators use: booleans become 0/1, numeric-looking
// strings parse under ctx's locale, anything else is #VALUE!. Grounded
// on the teacher's numeric-coercion helpers scattered through builtin.go
// (e.g. AVERAGE's arg handling), centralized here instead of repeated
// per function.
func Num(v model.Value, ctx Context) (float64, *model.ErrorValue) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		if f, ok := locale.ParseNumber(t, ctx.Locale()); ok {
			return f, nil
		}
		return 0, errVal(ctx, locale.ErrValue)
	case *model.ErrorValue:
		return 0, t
	case *model.Array:
		// A range/array reaching a scalar-expecting context without
		// having been reduced by implicit intersection isn't a type
		// mismatch, it's unsupported: spec §4.5 calls this out as NIMPL
		// rather than VALUE.
		return 0, errVal(ctx, locale.ErrNimpl)
	default:
		return 0, errVal(ctx, locale.ErrValue)
	}
}

// Text coerces v to its display string: numbers in general format,
// booleans as TRUE/FALSE, Empty as "".
func Text(v model.Value, ctx Context) (string, *model.ErrorValue) {
	if e, ok := model.IsError(v); ok {
		return "", e
	}
	return model.Stringify(v), nil
}

// Bool coerces v to a boolean: numbers are truthy iff nonzero, strings
// must spell TRUE/FALSE (case-insensitively, in English — Excel accepts
// only the canonical spelling here regardless of locale), Empty is
// false.
func Bool(v model.Value, ctx Context) (bool, *model.ErrorValue) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		switch strings.ToUpper(t) {
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		}
		return false, errVal(ctx, locale.ErrValue)
	case *model.ErrorValue:
		return false, t
	default:
		return false, errVal(ctx, locale.ErrValue)
	}
}

// Flatten expands every *model.Array argument into its scalar elements,
// in row-major order, leaving scalars untouched, so range and literal
// array aggregate functions (SUM, COUNT, MAX, ...) share one argument
// walk.
func Flatten(args []model.Value) []model.Value {
	out := make([]model.Value, 0, len(args))
	for _, a := range args {
		if arr, ok := a.(*model.Array); ok {
			out = append(out, arr.Data...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// FirstError returns the first *model.ErrorValue found while flattening
// args, implementing the spec's leftmost-error-wins propagation rule for
// functions that must abort on any erroring argument before computing.
func FirstError(args []model.Value) (*model.ErrorValue, bool) {
	for _, v := range Flatten(args) {
		if e, ok := model.IsError(v); ok {
			return e, true
		}
	}
	return nil, false
}

// ParseIndex parses a 1-based index argument (used by CHOOSE) into a
// 0-based int.
func ParseIndex(v model.Value, ctx Context) (int, *model.ErrorValue) {
	f, err := Num(v, ctx)
	if err != nil {
		return 0, err
	}
	return int(f) - 1, nil
}

// FormatInt renders a whole number without a decimal point.
func FormatInt(n int) string { return strconv.Itoa(n) }
