package functions

import (
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// IF, IFS, IFERROR, IFNA, CHOOSE, and SWITCH are special-cased in
// internal/eval rather than registered here, because they must not
// evaluate every argument (the branch not taken can legitimately be
// #DIV/0! or reference a cell mid-circular-edit without the call
// erroring). AND, OR, and NOT are ordinary eager functions — Excel does
// evaluate every argument of AND/OR, it just never made them control
// structures — so they live here like any other builtin.
func init() {
	Register("TRUE", func(args []model.Value, ctx Context) model.Value { return true })
	Register("FALSE", func(args []model.Value, ctx Context) model.Value { return false })
	Register("NOT", fnNot)
	Register("AND", fnAnd)
	Register("OR", fnOr)
	Register("XOR", fnXor)
	Register("ISERROR", fnIsError)
	Register("ISNA", fnIsNA)
	Register("ISBLANK", fnIsBlank)
	Register("ISNUMBER", fnIsNumber)
	Register("ISTEXT", fnIsText)
	Register("ISLOGICAL", fnIsLogical)
	Register("ISNONTEXT", fnIsNonText)
}

func fnNot(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	b, err := Bool(args[0], ctx)
	if err != nil {
		return err
	}
	return !b
}

func fnAnd(args []model.Value, ctx Context) model.Value {
	result := true
	any := false
	for _, v := range Flatten(args) {
		if v == nil {
			continue
		}
		b, err := Bool(v, ctx)
		if err != nil {
			return err
		}
		result = result && b
		any = true
	}
	if !any {
		return errVal(ctx, locale.ErrValue)
	}
	return result
}

func fnOr(args []model.Value, ctx Context) model.Value {
	result := false
	any := false
	for _, v := range Flatten(args) {
		if v == nil {
			continue
		}
		b, err := Bool(v, ctx)
		if err != nil {
			return err
		}
		result = result || b
		any = true
	}
	if !any {
		return errVal(ctx, locale.ErrValue)
	}
	return result
}

func fnXor(args []model.Value, ctx Context) model.Value {
	count := 0
	for _, v := range Flatten(args) {
		if v == nil {
			continue
		}
		b, err := Bool(v, ctx)
		if err != nil {
			return err
		}
		if b {
			count++
		}
	}
	return count%2 == 1
}

func fnIsError(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	_, ok := model.IsError(args[0])
	return ok
}

func fnIsNA(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	e, ok := model.IsError(args[0])
	return ok && e.Kind == locale.ErrNA
}

func fnIsBlank(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	return args[0] == nil
}

func fnIsNumber(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	_, ok := args[0].(float64)
	return ok
}

func fnIsText(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	_, ok := args[0].(string)
	return ok
}

func fnIsLogical(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	_, ok := args[0].(bool)
	return ok
}

func fnIsNonText(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	_, ok := args[0].(string)
	return !ok
}
