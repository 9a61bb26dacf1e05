package functions

import (
	"math"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

func init() {
	Register("SUM", fnSum)
	Register("PRODUCT", fnProduct)
	Register("AVERAGE", fnAverage)
	Register("ABS", fn1(math.Abs))
	Register("SQRT", fnSqrt)
	Register("PI", func(args []model.Value, ctx Context) model.Value { return math.Pi })
	Register("POWER", fnPower)
	Register("MOD", fnMod)
	Register("INT", fnInt)
	Register("SIGN", fn1(func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return 0
		}
	}))
	Register("EXP", fn1(math.Exp))
	Register("LN", fnLn)
	Register("LOG10", fn1(math.Log10))
	Register("LOG", fnLog)
	Register("ROUND", fnRound)
	Register("ROUNDDOWN", fnRoundDown)
	Register("ROUNDUP", fnRoundUp)
	Register("TRUNC", fnTrunc)
	Register("RAND", fnRand)
	Register("RANDBETWEEN", fnRandBetween)
}

func fnRand(args []model.Value, ctx Context) model.Value {
	if len(args) != 0 {
		return errVal(ctx, locale.ErrValue)
	}
	return ctx.Random().Float64()
}

func fnRandBetween(args []model.Value, ctx Context) model.Value {
	if len(args) != 2 {
		return errVal(ctx, locale.ErrValue)
	}
	lo, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	hi, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	if hi < lo {
		return errVal(ctx, locale.ErrNum)
	}
	return math.Floor(lo + ctx.Random().Float64()*(hi-lo+1))
}

func fn1(f func(float64) float64) Func {
	return func(args []model.Value, ctx Context) model.Value {
		if len(args) != 1 {
			return errVal(ctx, locale.ErrNum)
		}
		n, err := Num(args[0], ctx)
		if err != nil {
			return err
		}
		return f(n)
	}
}

// fnSum implements SUM: numbers, passed directly or inside ranges, are
// added; text, logical and empty values are skipped wherever they appear
// (a text or boolean argument is not coerced to a number); any erroring
// argument short-circuits the whole call.
func fnSum(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	var total float64
	for _, v := range Flatten(args) {
		if n, ok := v.(float64); ok {
			total += n
		}
	}
	return total
}

func fnProduct(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	total := 1.0
	any := false
	for _, v := range Flatten(args) {
		if n, ok := v.(float64); ok {
			total *= n
			any = true
		}
	}
	if !any {
		return 0.0
	}
	return total
}

func fnAverage(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	var total float64
	var count int
	for _, v := range Flatten(args) {
		if n, ok := v.(float64); ok {
			total += n
			count++
		}
	}
	if count == 0 {
		return errVal(ctx, locale.ErrDiv)
	}
	return total / float64(count)
}

func fnSqrt(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrNum)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	if n < 0 {
		return errVal(ctx, locale.ErrNum)
	}
	return math.Sqrt(n)
}

func fnPower(args []model.Value, ctx Context) model.Value {
	if len(args) != 2 {
		return errVal(ctx, locale.ErrNum)
	}
	base, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	exp, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	return math.Pow(base, exp)
}

func fnMod(args []model.Value, ctx Context) model.Value {
	if len(args) != 2 {
		return errVal(ctx, locale.ErrNum)
	}
	a, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	b, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	if b == 0 {
		return errVal(ctx, locale.ErrDiv)
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// fnInt implements INT's floor-toward-negative-infinity semantics —
// distinct from TRUNC, which truncates toward zero. INT(-2.5) is -3;
// TRUNC(-2.5) is -2.
func fnInt(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrNum)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	return math.Floor(n)
}

func fnLn(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrNum)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	if n <= 0 {
		return errVal(ctx, locale.ErrNum)
	}
	return math.Log(n)
}

func fnLog(args []model.Value, ctx Context) model.Value {
	if len(args) < 1 || len(args) > 2 {
		return errVal(ctx, locale.ErrNum)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	if n <= 0 {
		return errVal(ctx, locale.ErrNum)
	}
	base := 10.0
	if len(args) == 2 {
		base, err = Num(args[1], ctx)
		if err != nil {
			return err
		}
	}
	return math.Log(n) / math.Log(base)
}

// fnRound implements banker's-free, away-from-zero rounding to digits
// decimal places, matching Excel's ROUND (not Go's round-half-to-even).
func fnRound(args []model.Value, ctx Context) model.Value {
	n, digits, err := numAndDigits(args, ctx)
	if err != nil {
		return err
	}
	factor := math.Pow(10, digits)
	return roundHalfAwayFromZero(n*factor) / factor
}

// fnRoundDown truncates toward zero at digits decimal places regardless
// of sign, per spec §5's ROUNDDOWN entry.
func fnRoundDown(args []model.Value, ctx Context) model.Value {
	n, digits, err := numAndDigits(args, ctx)
	if err != nil {
		return err
	}
	factor := math.Pow(10, digits)
	if n >= 0 {
		return math.Floor(n*factor) / factor
	}
	return math.Ceil(n*factor) / factor
}

// fnRoundUp rounds away from zero at digits decimal places, always
// increasing magnitude unless the value is already exact.
func fnRoundUp(args []model.Value, ctx Context) model.Value {
	n, digits, err := numAndDigits(args, ctx)
	if err != nil {
		return err
	}
	factor := math.Pow(10, digits)
	if n >= 0 {
		return math.Ceil(n*factor) / factor
	}
	return math.Floor(n*factor) / factor
}

func fnTrunc(args []model.Value, ctx Context) model.Value {
	n, digits, err := numAndDigits(args, ctx)
	if err != nil {
		return err
	}
	factor := math.Pow(10, digits)
	return math.Trunc(n*factor) / factor
}

func numAndDigits(args []model.Value, ctx Context) (float64, float64, *model.ErrorValue) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, errVal(ctx, locale.ErrNum)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return 0, 0, err
	}
	digits := 0.0
	if len(args) == 2 {
		digits, err = Num(args[1], ctx)
		if err != nil {
			return 0, 0, err
		}
	}
	return n, digits, nil
}

func roundHalfAwayFromZero(f float64) float64 {
	if f >= 0 {
		return math.Floor(f + 0.5)
	}
	return math.Ceil(f - 0.5)
}
