// Package format implements the number/date formatter contract spec
// §4.8 calls out for the evaluator's TEXT()/get_formatted_cell_value
// paths: an interface plus one conforming implementation covering the
// general/number/percentage/currency/date pattern families, not a
// complete number-format-pattern engine. Grounded on the teacher's
// absence of any formatting layer at all (vogtb stores only raw
// Primitive values) and on internal/locale's Locale for separator and
// month/day-name localization.
package format

import (
	"strconv"
	"strings"

	"github.com/inkcell/inkcell/internal/locale"
)

// Formatter renders a raw number or date serial under a format pattern
// and locale, the way a cell's display value differs from its stored
// value.
type Formatter interface {
	FormatNumber(value float64, pattern string, loc *locale.Locale) string
	FormatDate(serial float64, pattern string, loc *locale.Locale) string
}

// Default is the package's one conforming Formatter.
var Default Formatter = defaultFormatter{}

type defaultFormatter struct{}

// FormatNumber recognizes the general/integer/decimal/percentage/
// currency/thousands-grouped pattern families; any other pattern falls
// back to general format rather than erroring.
func (defaultFormatter) FormatNumber(value float64, pattern string, loc *locale.Locale) string {
	switch {
	case pattern == "" || pattern == "General" || pattern == "@":
		return generalNumber(value)
	case pattern == "0":
		return strconv.FormatFloat(value, 'f', 0, 64)
	case pattern == "0.00":
		return decimalSep(strconv.FormatFloat(value, 'f', 2, 64), loc)
	case pattern == "0%":
		return strconv.FormatFloat(value*100, 'f', 0, 64) + "%"
	case pattern == "0.00%":
		return decimalSep(strconv.FormatFloat(value*100, 'f', 2, 64), loc) + "%"
	case pattern == "#,##0":
		return groupThousands(strconv.FormatFloat(value, 'f', 0, 64), loc)
	case pattern == "#,##0.00":
		return groupThousands(decimalSep(strconv.FormatFloat(value, 'f', 2, 64), loc), loc)
	case strings.Contains(pattern, loc.CurrencySymbol) || strings.HasPrefix(pattern, "$"):
		return loc.CurrencySymbol + groupThousands(decimalSep(strconv.FormatFloat(value, 'f', 2, 64), loc), loc)
	default:
		return generalNumber(value)
	}
}

// FormatDate recognizes a handful of common date/time patterns
// (yyyy-mm-dd, mm/dd/yyyy, dd/mm/yyyy, and their long-month variants);
// anything else falls back to ISO-8601.
func (defaultFormatter) FormatDate(serial float64, pattern string, loc *locale.Locale) string {
	y, m, d := civilFromSerial(serial)
	switch pattern {
	case "", "yyyy-mm-dd":
		return fourDigits(y) + "-" + twoDigits(m) + "-" + twoDigits(d)
	case "mm/dd/yyyy":
		return twoDigits(m) + "/" + twoDigits(d) + "/" + fourDigits(y)
	case "dd/mm/yyyy":
		return twoDigits(d) + "/" + twoDigits(m) + "/" + fourDigits(y)
	case "d mmmm yyyy":
		return strconv.Itoa(d) + " " + loc.MonthNames[m-1] + " " + fourDigits(y)
	case "mmm d, yyyy":
		return loc.MonthNamesShort[m-1] + " " + strconv.Itoa(d) + ", " + fourDigits(y)
	default:
		return fourDigits(y) + "-" + twoDigits(m) + "-" + twoDigits(d)
	}
}

func generalNumber(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	s = strings.Replace(s, "e+", "E+", 1)
	s = strings.Replace(s, "e-", "E-", 1)
	return s
}

func decimalSep(s string, loc *locale.Locale) string {
	if loc.DecimalSeparator == '.' {
		return s
	}
	return strings.Replace(s, ".", string(loc.DecimalSeparator), 1)
}

func groupThousands(s string, loc *locale.Locale) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if idx := strings.IndexAny(s, ".,"); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	out := strings.Join(groups, string(loc.ThousandSeparator)) + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func twoDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func fourDigits(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
