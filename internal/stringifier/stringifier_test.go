package stringifier_test

import (
	"testing"

	"github.com/inkcell/inkcell/internal/lexer"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
	"github.com/inkcell/inkcell/internal/parser"
	"github.com/inkcell/inkcell/internal/stringifier"
)

func mustParse(t *testing.T, formula string) (*locale.Locale, *locale.Language) {
	t.Helper()
	loc, err := locale.Get("en")
	if err != nil {
		t.Fatalf("locale.Get: %v", err)
	}
	lang, err := locale.GetLanguage("en")
	if err != nil {
		t.Fatalf("locale.GetLanguage: %v", err)
	}
	return loc, lang
}

// TestStringifyIsIdempotent is spec §8's quantified invariant:
// stringify(parse(s)) == stringify(parse(stringify(parse(s)))).
func TestStringifyIsIdempotent(t *testing.T) {
	loc, lang := mustParse(t, "")
	formulas := []string{
		"=SUM(A1:A3)+1",
		"=IF(A1>0,\"pos\",\"neg\")",
		"=-2^2",
		"={1,2;3,4}",
		"=A1&B1",
	}
	for _, f := range formulas {
		origin := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}

		tokens1, err := lexer.New(f, loc, lang, lexer.ModeA1).Tokenize()
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", f, err)
		}
		ctx := &parser.Context{
			CurrentSheet: origin.WorksheetID, Mode: lexer.ModeA1, Locale: loc, Language: lang,
			ResolveSheet: func(string) uint32 { return 1 },
		}
		node1, err := parser.New(tokens1, ctx).Parse()
		if err != nil {
			t.Fatalf("Parse(%q): %v", f, err)
		}
		opts := stringifier.Options{
			Form: stringifier.FormA1Localized, Locale: loc, Language: lang,
			ResolveSheet: func(id uint32) (string, bool) { return "Sheet1", id == 1 },
		}
		s1 := stringifier.Stringify(node1, origin, opts)

		tokens2, err := lexer.New(s1, loc, lang, lexer.ModeA1).Tokenize()
		if err != nil {
			t.Fatalf("Tokenize(%q) (round 2): %v", s1, err)
		}
		node2, err := parser.New(tokens2, ctx).Parse()
		if err != nil {
			t.Fatalf("Parse(%q) (round 2): %v", s1, err)
		}
		s2 := stringifier.Stringify(node2, origin, opts)

		if s1 != s2 {
			t.Fatalf("stringify not idempotent for %q: round1=%q round2=%q", f, s1, s2)
		}
	}
}
