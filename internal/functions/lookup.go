package functions

import (
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// CHOOSE and IF-family functions are special-cased in internal/eval for
// lazy argument evaluation (see logical.go's init comment); this file
// holds the eager lookup builtins that operate purely on already-
// materialized arrays: INDEX, MATCH, VLOOKUP, HLOOKUP. OFFSET needs to
// build a *new* range reference rather than a value, so it lives
// entirely in internal/eval (evalOffset) and nothing of it is here.
func init() {
	Register("INDEX", fnIndex)
	Register("MATCH", fnMatch)
	Register("VLOOKUP", fnVlookup)
	Register("HLOOKUP", fnHlookup)
}

func asArray(v model.Value) (*model.Array, bool) {
	a, ok := v.(*model.Array)
	return a, ok
}

func fnIndex(args []model.Value, ctx Context) model.Value {
	if len(args) < 2 || len(args) > 3 {
		return errVal(ctx, locale.ErrValue)
	}
	arr, ok := asArray(args[0])
	if !ok {
		arr = model.NewArray(1, 1)
		arr.Set(0, 0, args[0])
	}
	row, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	col := 1.0
	if len(args) == 3 {
		col, err = Num(args[2], ctx)
		if err != nil {
			return err
		}
	}
	r, c := int(row)-1, int(col)-1
	if arr.Rows == 1 && len(args) < 3 {
		r, c = 0, int(row)-1
	}
	if r < 0 || r >= arr.Rows || c < 0 || c >= arr.Cols {
		return errVal(ctx, locale.ErrRef)
	}
	return arr.At(r, c)
}

// fnMatch implements the three match-type conventions spec §5 names: 1
// (largest value <= lookup, data ascending), 0 (exact match, any order),
// -1 (smallest value >= lookup, data descending).
func fnMatch(args []model.Value, ctx Context) model.Value {
	if len(args) < 2 || len(args) > 3 {
		return errVal(ctx, locale.ErrValue)
	}
	target := args[0]
	arr, ok := asArray(args[1])
	if !ok {
		return errVal(ctx, locale.ErrNA)
	}
	matchType := 1
	if len(args) == 3 {
		m, err := Num(args[2], ctx)
		if err != nil {
			return err
		}
		matchType = int(m)
	}
	items := arr.Data
	switch matchType {
	case 0:
		for i, v := range items {
			if valuesEqual(v, target) {
				return float64(i + 1)
			}
		}
		return errVal(ctx, locale.ErrNA)
	case 1:
		best := -1
		for i, v := range items {
			if compareOrdered(v, target) <= 0 {
				best = i
			} else {
				break
			}
		}
		if best < 0 {
			return errVal(ctx, locale.ErrNA)
		}
		return float64(best + 1)
	case -1:
		best := -1
		for i, v := range items {
			if compareOrdered(v, target) >= 0 {
				best = i
			} else {
				break
			}
		}
		if best < 0 {
			return errVal(ctx, locale.ErrNA)
		}
		return float64(best + 1)
	default:
		return errVal(ctx, locale.ErrValue)
	}
}

func valuesEqual(a, b model.Value) bool {
	if an, ok := a.(float64); ok {
		if bn, ok := b.(float64); ok {
			return an == bn
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as == bs
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	return false
}

// compareOrdered orders values the way MATCH's approximate modes expect:
// numbers by magnitude, strings lexically, with cross-type comparisons
// falling back to model.TypeOrdinal (numbers < strings < booleans).
func compareOrdered(a, b model.Value) int {
	if an, ok := a.(float64); ok {
		if bn, ok := b.(float64); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			default:
				return 0
			}
		}
	}
	return model.TypeOrdinal(a) - model.TypeOrdinal(b)
}

func fnVlookup(args []model.Value, ctx Context) model.Value {
	if len(args) < 3 || len(args) > 4 {
		return errVal(ctx, locale.ErrValue)
	}
	target := args[0]
	arr, ok := asArray(args[1])
	if !ok {
		return errVal(ctx, locale.ErrNA)
	}
	colN, err := Num(args[2], ctx)
	if err != nil {
		return err
	}
	col := int(colN) - 1
	if col < 0 || col >= arr.Cols {
		return errVal(ctx, locale.ErrRef)
	}
	exact := false
	if len(args) == 4 {
		approx, err := Bool(args[3], ctx)
		if err != nil {
			return err
		}
		exact = !approx
	}
	row := lookupRow(arr, target, exact, ctx)
	if row < 0 {
		return errVal(ctx, locale.ErrNA)
	}
	return arr.At(row, col)
}

func fnHlookup(args []model.Value, ctx Context) model.Value {
	if len(args) < 3 || len(args) > 4 {
		return errVal(ctx, locale.ErrValue)
	}
	target := args[0]
	arr, ok := asArray(args[1])
	if !ok {
		return errVal(ctx, locale.ErrNA)
	}
	rowN, err := Num(args[2], ctx)
	if err != nil {
		return err
	}
	row := int(rowN) - 1
	if row < 0 || row >= arr.Rows {
		return errVal(ctx, locale.ErrRef)
	}
	exact := false
	if len(args) == 4 {
		approx, err := Bool(args[3], ctx)
		if err != nil {
			return err
		}
		exact = !approx
	}
	col := lookupCol(arr, target, exact, ctx)
	if col < 0 {
		return errVal(ctx, locale.ErrNA)
	}
	return arr.At(row, col)
}

func lookupRow(arr *model.Array, target model.Value, exact bool, ctx Context) int {
	if exact {
		for r := 0; r < arr.Rows; r++ {
			if valuesEqual(arr.At(r, 0), target) {
				return r
			}
		}
		return -1
	}
	best := -1
	for r := 0; r < arr.Rows; r++ {
		if compareOrdered(arr.At(r, 0), target) <= 0 {
			best = r
		} else {
			break
		}
	}
	return best
}

func lookupCol(arr *model.Array, target model.Value, exact bool, ctx Context) int {
	if exact {
		for c := 0; c < arr.Cols; c++ {
			if valuesEqual(arr.At(0, c), target) {
				return c
			}
		}
		return -1
	}
	best := -1
	for c := 0; c < arr.Cols; c++ {
		if compareOrdered(arr.At(0, c), target) <= 0 {
			best = c
		} else {
			break
		}
	}
	return best
}
