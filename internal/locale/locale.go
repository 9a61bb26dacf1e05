// Package locale holds the decimal/thousand/list separators, month/day
// names, and per-language identifier tables that the lexer, parser,
// stringifier, and formatter consult. Tables are package-level immutable
// maps seeded at init(), standing in for the teacher's "compact binary
// table loaded at startup" (spec §4.1) — the workbook never mutates them.
package locale

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Locale defines the punctuation and calendar names a formula's surface
// syntax is parsed and rendered under.
type Locale struct {
	ID                string
	DecimalSeparator  rune
	ThousandSeparator rune
	ListSeparator     rune
	ArrayRowSeparator rune // ';' between array rows, e.g. {1,2;3,4}
	ArrayColSeparator rune // ',' between array columns
	CurrencySymbol    string
	MonthNames        [12]string
	MonthNamesShort   [12]string
	DayNames          [7]string
	DayNamesShort     [7]string
}

// ErrorKind enumerates the 12 in-cell spreadsheet error kinds. Ordinals are
// stable across languages; only the surface string is localized.
type ErrorKind uint8

const (
	ErrRef ErrorKind = iota
	ErrName
	ErrValue
	ErrDiv
	ErrNA
	ErrNum
	ErrError
	ErrNimpl
	ErrSpill
	ErrCalc
	ErrCirc
	ErrNull
	errKindCount
)

// Language defines the localized error/boolean/function-name surface a
// formula is lexed and stringified under.
type Language struct {
	ID          string
	ErrorNames  [errKindCount]string
	TrueName    string
	FalseName   string
	functionMap map[string]string // uppercased localized name -> canonical name
	reverseFunc map[string]string // canonical -> localized
}

var locales = map[string]*Locale{}
var languages = map[string]*Language{}

func registerLocale(l *Locale) { locales[l.ID] = l }
func registerLanguage(l *Language) {
	l.reverseFunc = make(map[string]string, len(l.functionMap))
	for localized, canonical := range l.functionMap {
		l.reverseFunc[canonical] = localized
	}
	languages[l.ID] = l
}

func init() {
	registerLocale(&Locale{
		ID: "en", DecimalSeparator: '.', ThousandSeparator: ',', ListSeparator: ',',
		ArrayRowSeparator: ';', ArrayColSeparator: ',', CurrencySymbol: "$",
		MonthNames:      [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		MonthNamesShort: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		DayNames:        [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		DayNamesShort:   [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	})
	registerLocale(&Locale{
		ID: "en_UK", DecimalSeparator: '.', ThousandSeparator: ',', ListSeparator: ',',
		ArrayRowSeparator: ';', ArrayColSeparator: ',', CurrencySymbol: "£",
		MonthNames:      locales["en"].MonthNames,
		MonthNamesShort: locales["en"].MonthNamesShort,
		DayNames:        locales["en"].DayNames,
		DayNamesShort:   locales["en"].DayNamesShort,
	})
	registerLocale(&Locale{
		ID: "es", DecimalSeparator: ',', ThousandSeparator: '.', ListSeparator: ';',
		ArrayRowSeparator: ';', ArrayColSeparator: ',', CurrencySymbol: "€",
		MonthNames:      [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		MonthNamesShort: [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
		DayNames:        [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
		DayNamesShort:   [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
	})
	registerLocale(&Locale{
		ID: "fr", DecimalSeparator: ',', ThousandSeparator: ' ', ListSeparator: ';',
		ArrayRowSeparator: ';', ArrayColSeparator: ',', CurrencySymbol: "€",
		MonthNames:      [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		MonthNamesShort: [12]string{"janv", "févr", "mars", "avr", "mai", "juin", "juil", "août", "sept", "oct", "nov", "déc"},
		DayNames:        [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
		DayNamesShort:   [7]string{"dim", "lun", "mar", "mer", "jeu", "ven", "sam"},
	})
	registerLocale(&Locale{
		ID: "de", DecimalSeparator: ',', ThousandSeparator: '.', ListSeparator: ';',
		ArrayRowSeparator: ';', ArrayColSeparator: ',', CurrencySymbol: "€",
		MonthNames:      [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		MonthNamesShort: [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
		DayNames:        [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		DayNamesShort:   [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	})

	registerLanguage(&Language{
		ID: "en", TrueName: "TRUE", FalseName: "FALSE",
		ErrorNames: [errKindCount]string{
			ErrRef: "#REF!", ErrName: "#NAME?", ErrValue: "#VALUE!", ErrDiv: "#DIV/0!",
			ErrNA: "#N/A", ErrNum: "#NUM!", ErrError: "#ERROR!", ErrNimpl: "#NIMPL!",
			ErrSpill: "#SPILL!", ErrCalc: "#CALC!", ErrCirc: "#CIRC!", ErrNull: "#NULL!",
		},
		functionMap: identityFunctionMap(),
	})
	registerLanguage(&Language{
		ID: "es", TrueName: "VERDADERO", FalseName: "FALSO",
		ErrorNames: [errKindCount]string{
			ErrRef: "#¡REF!", ErrName: "#¿NOMBRE?", ErrValue: "#¡VALOR!", ErrDiv: "#¡DIV/0!",
			ErrNA: "#N/A", ErrNum: "#¡NUM!", ErrError: "#¡ERROR!", ErrNimpl: "#NIMPL!",
			ErrSpill: "#¡DESBORDAMIENTO!", ErrCalc: "#¡CALC!", ErrCirc: "#¡CIRC!", ErrNull: "#¡NULO!",
		},
		functionMap: map[string]string{
			"SUMA": "SUM", "PROMEDIO": "AVERAGE", "SI": "IF", "Y": "AND", "O": "OR", "NO": "NOT",
			"CONCATENAR": "CONCATENATE", "BUSCARV": "VLOOKUP", "BUSCARH": "HLOOKUP",
		},
	})
	registerLanguage(&Language{
		ID: "fr", TrueName: "VRAI", FalseName: "FAUX",
		ErrorNames: [errKindCount]string{
			ErrRef: "#REF!", ErrName: "#NOM?", ErrValue: "#VALEUR!", ErrDiv: "#DIV/0!",
			ErrNA: "#N/A", ErrNum: "#NOMBRE!", ErrError: "#ERREUR!", ErrNimpl: "#NIMPL!",
			ErrSpill: "#DEBORDEMENT!", ErrCalc: "#CALC!", ErrCirc: "#CIRC!", ErrNull: "#NUL!",
		},
		functionMap: map[string]string{
			"SOMME": "SUM", "MOYENNE": "AVERAGE", "SI": "IF", "ET": "AND", "OU": "OR", "NON": "NOT",
			"CONCATENER": "CONCATENATE", "RECHERCHEV": "VLOOKUP", "RECHERCHEH": "HLOOKUP",
		},
	})
	registerLanguage(&Language{
		ID: "de", TrueName: "WAHR", FalseName: "FALSCH",
		ErrorNames: [errKindCount]string{
			ErrRef: "#BEZUG!", ErrName: "#NAME?", ErrValue: "#WERT!", ErrDiv: "#DIV/0!",
			ErrNA: "#NV", ErrNum: "#ZAHL!", ErrError: "#FEHLER!", ErrNimpl: "#NIMPL!",
			ErrSpill: "#ÜBERLAUF!", ErrCalc: "#CALC!", ErrCirc: "#ZIRKEL!", ErrNull: "#NULL!",
		},
		functionMap: map[string]string{
			"SUMME": "SUM", "MITTELWERT": "AVERAGE", "WENN": "IF", "UND": "AND", "ODER": "OR", "NICHT": "NOT",
			"VERKETTEN": "CONCATENATE", "SVERWEIS": "VLOOKUP", "WVERWEIS": "HLOOKUP",
		},
	})
}

// canonicalFunctionNames lists function names that are identical across
// every supported language (the vast majority of the library), so the
// English identity map doubles as the "no translation" baseline every
// other language's map is implicitly layered on top of.
var canonicalFunctionNames = []string{
	"SUM", "AVERAGE", "AVERAGEA", "COUNT", "COUNTA", "COUNTBLANK", "COUNTIF", "COUNTIFS",
	"MAX", "MIN", "MEDIAN", "MODE", "STDEV", "STDEVP", "VAR", "VARP",
	"IF", "IFERROR", "IFNA", "AND", "OR", "NOT", "XOR",
	"ISERROR", "ISNA", "ISBLANK", "ISNUMBER", "ISTEXT", "ISLOGICAL",
	"CONCATENATE", "LEN", "UPPER", "LOWER", "TRIM", "LEFT", "RIGHT", "MID", "FIND", "SEARCH",
	"SUBSTITUTE", "REPLACE", "TEXT", "VALUE",
	"ABS", "ROUND", "ROUNDDOWN", "ROUNDUP", "FLOOR", "CEILING", "SQRT", "POWER", "MOD", "PI",
	"INT", "TRUNC", "SIGN", "EXP", "LN", "LOG", "LOG10",
	"NOW", "TODAY", "RAND", "RANDBETWEEN",
	"DATE", "YEAR", "MONTH", "DAY", "WEEKDAY", "WEEKNUM", "DATEDIF", "DAYS360", "WORKDAY.INTL", "NETWORKDAYS",
	"VLOOKUP", "HLOOKUP", "INDEX", "MATCH", "CHOOSE", "OFFSET",
	"EXPON.DIST", "POISSON.DIST", "WEIBULL.DIST", "GAUSS", "STANDARDIZE", "NORM.DIST", "NORM.S.DIST",
}

func identityFunctionMap() map[string]string {
	m := make(map[string]string, len(canonicalFunctionNames))
	for _, name := range canonicalFunctionNames {
		m[name] = name
	}
	return m
}

// Get returns the locale registered under id, normalizing common IANA /
// BCP-47-ish spellings ("en-US" -> "en") via golang.org/x/text/language
// before falling back to an exact lookup. Unknown ids are a host error,
// never a panic (spec §9).
func Get(id string) (*Locale, error) {
	if l, ok := locales[id]; ok {
		return l, nil
	}
	if norm, ok := normalizeID(id, localeIDs()); ok {
		return locales[norm], nil
	}
	return nil, errors.Errorf("locale: unknown locale id %q", id)
}

// GetLanguage returns the language registered under id, with the same
// normalization behavior as Get.
func GetLanguage(id string) (*Language, error) {
	if l, ok := languages[id]; ok {
		return l, nil
	}
	if norm, ok := normalizeID(id, languageIDs()); ok {
		return languages[norm], nil
	}
	return nil, errors.Errorf("locale: unknown language id %q", id)
}

func localeIDs() []string {
	ids := make([]string, 0, len(locales))
	for id := range locales {
		ids = append(ids, id)
	}
	return ids
}

func languageIDs() []string {
	ids := make([]string, 0, len(languages))
	for id := range languages {
		ids = append(ids, id)
	}
	return ids
}

// normalizeID matches a requested id against the supported set by BCP-47
// base language, e.g. "de-DE" or "de_DE" normalizes to "de".
func normalizeID(id string, supported []string) (string, bool) {
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	baseStr := base.String()
	for _, s := range supported {
		if strings.EqualFold(s, baseStr) {
			return s, true
		}
	}
	for _, s := range supported {
		if strings.HasPrefix(strings.ToLower(s), strings.ToLower(baseStr)) {
			return s, true
		}
	}
	return "", false
}

// ResolveFunction maps a (possibly localized) identifier to its canonical
// function name under language, per spec §4.1's resolve_function contract.
func ResolveFunction(name string, lang *Language) (string, bool) {
	upper := strings.ToUpper(name)
	if canonical, ok := lang.functionMap[upper]; ok {
		return canonical, true
	}
	return "", false
}

// LocalizeFunction renders a canonical function name in lang's surface
// syntax, falling back to the canonical spelling when lang has no
// translation for it (true for the large majority of the library).
func LocalizeFunction(canonical string, lang *Language) string {
	if localized, ok := lang.reverseFunc[canonical]; ok {
		return localized
	}
	return canonical
}

// LocalizeError renders kind in lang's surface syntax.
func LocalizeError(kind ErrorKind, lang *Language) string {
	if int(kind) >= len(lang.ErrorNames) {
		return "#ERROR!"
	}
	return lang.ErrorNames[kind]
}

// ErrorIndex is the inverse of LocalizeError: it resolves a localized
// error string back to its ordinal, satisfying the round-trip property of
// spec §8 ("error_index(format(k)) = k for every kind under its language").
func ErrorIndex(text string, lang *Language) (ErrorKind, bool) {
	for k, name := range lang.ErrorNames {
		if name == text {
			return ErrorKind(k), true
		}
	}
	return 0, false
}

// ParseNumber parses text as a float64 under locale's decimal separator,
// returning ok=false (never an error) when text is not a valid number —
// per spec §4.1's `parse_number(text, locale) -> f64 | None` contract.
func ParseNumber(text string, loc *Locale) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	normalized := text
	if loc.ThousandSeparator != 0 {
		normalized = strings.ReplaceAll(normalized, string(loc.ThousandSeparator), "")
	}
	if loc.DecimalSeparator != '.' {
		normalized = strings.ReplaceAll(normalized, string(loc.DecimalSeparator), ".")
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
