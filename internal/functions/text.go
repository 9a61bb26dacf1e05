package functions

import (
	"strconv"
	"strings"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

func init() {
	Register("CONCATENATE", fnConcatenate)
	Register("CONCAT", fnConcatenate)
	Register("LEN", fnLen)
	Register("UPPER", fnUpper)
	Register("LOWER", fnLower)
	Register("TRIM", fnTrim)
	Register("LEFT", fnLeft)
	Register("RIGHT", fnRight)
	Register("MID", fnMid)
	Register("SUBSTITUTE", fnSubstitute)
	Register("EXACT", fnExact)
	Register("FIND", fnFind)
	Register("VALUE", fnValue)
	Register("TEXT", fnText)
}

func fnConcatenate(args []model.Value, ctx Context) model.Value {
	var sb strings.Builder
	for _, v := range Flatten(args) {
		s, err := Text(v, ctx)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func fnLen(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	return float64(len([]rune(s)))
}

func fnUpper(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	return strings.ToUpper(s)
}

func fnLower(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	return strings.ToLower(s)
}

func fnTrim(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func fnLeft(args []model.Value, ctx Context) model.Value {
	s, n, err := textAndCount(args, ctx, 1)
	if err != nil {
		return err
	}
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	return string(r[:n])
}

func fnRight(args []model.Value, ctx Context) model.Value {
	s, n, err := textAndCount(args, ctx, 1)
	if err != nil {
		return err
	}
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	return string(r[len(r)-n:])
}

func textAndCount(args []model.Value, ctx Context, defaultN int) (string, int, *model.ErrorValue) {
	if len(args) < 1 || len(args) > 2 {
		return "", 0, errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return "", 0, err
	}
	n := defaultN
	if len(args) == 2 {
		f, err := Num(args[1], ctx)
		if err != nil {
			return "", 0, err
		}
		n = int(f)
	}
	if n < 0 {
		return "", 0, errVal(ctx, locale.ErrValue)
	}
	return s, n, nil
}

func fnMid(args []model.Value, ctx Context) model.Value {
	if len(args) != 3 {
		return errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	start, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	count, err := Num(args[2], ctx)
	if err != nil {
		return err
	}
	r := []rune(s)
	from := int(start) - 1
	if from < 0 {
		return errVal(ctx, locale.ErrValue)
	}
	if from >= len(r) {
		return ""
	}
	to := from + int(count)
	if to > len(r) {
		to = len(r)
	}
	return string(r[from:to])
}

func fnSubstitute(args []model.Value, ctx Context) model.Value {
	if len(args) < 3 || len(args) > 4 {
		return errVal(ctx, locale.ErrValue)
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	old, err := Text(args[1], ctx)
	if err != nil {
		return err
	}
	neu, err := Text(args[2], ctx)
	if err != nil {
		return err
	}
	if len(args) == 3 {
		return strings.ReplaceAll(s, old, neu)
	}
	instance, err := Num(args[3], ctx)
	if err != nil {
		return err
	}
	n := int(instance)
	if n < 1 {
		return errVal(ctx, locale.ErrValue)
	}
	count := 0
	idx := 0
	for {
		pos := strings.Index(s[idx:], old)
		if pos < 0 {
			return s
		}
		pos += idx
		count++
		if count == n {
			return s[:pos] + neu + s[pos+len(old):]
		}
		idx = pos + len(old)
		if len(old) == 0 {
			idx++
		}
	}
}

func fnExact(args []model.Value, ctx Context) model.Value {
	if len(args) != 2 {
		return errVal(ctx, locale.ErrValue)
	}
	a, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	b, err := Text(args[1], ctx)
	if err != nil {
		return err
	}
	return a == b
}

func fnFind(args []model.Value, ctx Context) model.Value {
	if len(args) < 2 || len(args) > 3 {
		return errVal(ctx, locale.ErrValue)
	}
	needle, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	haystack, err := Text(args[1], ctx)
	if err != nil {
		return err
	}
	start := 0
	if len(args) == 3 {
		f, err := Num(args[2], ctx)
		if err != nil {
			return err
		}
		start = int(f) - 1
	}
	r := []rune(haystack)
	if start < 0 || start > len(r) {
		return errVal(ctx, locale.ErrValue)
	}
	idx := strings.Index(string(r[start:]), needle)
	if idx < 0 {
		return errVal(ctx, locale.ErrValue)
	}
	return float64(len([]rune(string(r[start:])[:idx])) + start + 1)
}

func fnValue(args []model.Value, ctx Context) model.Value {
	if len(args) != 1 {
		return errVal(ctx, locale.ErrValue)
	}
	if n, ok := args[0].(float64); ok {
		return n
	}
	s, err := Text(args[0], ctx)
	if err != nil {
		return err
	}
	if f, ok := locale.ParseNumber(s, ctx.Locale()); ok {
		return f
	}
	return errVal(ctx, locale.ErrValue)
}

// fnText renders a number under an Excel-style numeric format code.
// Only the handful of codes the spec's formatted-value operation needs
// are implemented; anything unrecognized falls back to general format,
// matching the default formatter's behavior rather than erroring.
func fnText(args []model.Value, ctx Context) model.Value {
	if len(args) != 2 {
		return errVal(ctx, locale.ErrValue)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	format, terr := Text(args[1], ctx)
	if terr != nil {
		return terr
	}
	switch format {
	case "0":
		return strconv.FormatFloat(n, 'f', 0, 64)
	case "0.00":
		return strconv.FormatFloat(n, 'f', 2, 64)
	case "0%":
		return strconv.FormatFloat(n*100, 'f', 0, 64) + "%"
	case "#,##0":
		return groupThousands(strconv.FormatFloat(n, 'f', 0, 64), ctx.Locale().ThousandSeparator)
	default:
		return model.Stringify(n)
	}
}

func groupThousands(digits string, sep rune) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	out := strings.Join(parts, string(sep))
	if neg {
		out = "-" + out
	}
	return out
}
