package lexer

import (
	"testing"

	"github.com/inkcell/inkcell/internal/locale"
)

func mustLocale(t *testing.T, id string) *locale.Locale {
	t.Helper()
	loc, err := locale.Get(id)
	if err != nil {
		t.Fatalf("locale.Get(%q): %v", id, err)
	}
	return loc
}

func mustLanguage(t *testing.T, id string) *locale.Language {
	t.Helper()
	lang, err := locale.GetLanguage(id)
	if err != nil {
		t.Fatalf("locale.GetLanguage(%q): %v", id, err)
	}
	return lang
}

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizeSimpleSum(t *testing.T) {
	en, lang := mustLocale(t, "en"), mustLanguage(t, "en")
	tokens, err := New("=SUM(A1:A3)", en, lang, ModeA1).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	got := tokenTypes(tokens)
	want := []TokenType{
		TokenEquals, TokenFunction, TokenLeftParen, TokenRef, TokenRightParen, TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeDecimalSeparatorIsLocaleAware(t *testing.T) {
	de, deLang := mustLocale(t, "de"), mustLanguage(t, "de")
	tokens, err := New("=1,23", de, deLang, ModeA1).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) < 2 || tokens[1].Type != TokenNumber || tokens[1].Value != "1,23" {
		t.Fatalf("tokens = %+v, want a single TokenNumber '1,23'", tokens)
	}
}

func TestTokenizeErrorLiteral(t *testing.T) {
	en, lang := mustLocale(t, "en"), mustLanguage(t, "en")
	tokens, err := New("=#N/A", en, lang, ModeA1).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) < 2 || tokens[1].Type != TokenErrorLiteral {
		t.Fatalf("tokens = %+v, want tokens[1] to be TokenErrorLiteral", tokens)
	}
}

func TestTokenizeArrayLiteralBraces(t *testing.T) {
	en, lang := mustLocale(t, "en"), mustLanguage(t, "en")
	tokens, err := New("={1,2;3,4}", en, lang, ModeA1).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	got := tokenTypes(tokens)
	want := []TokenType{
		TokenEquals, TokenLeftBrace, TokenNumber, TokenComma, TokenNumber,
		TokenSemicolon, TokenNumber, TokenComma, TokenNumber, TokenRightBrace, TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeRejectsUnterminatedString(t *testing.T) {
	en, lang := mustLocale(t, "en"), mustLanguage(t, "en")
	_, err := New(`="unterminated`, en, lang, ModeA1).Tokenize()
	if err == nil {
		t.Fatalf("expected an error for an unterminated string literal")
	}
}
