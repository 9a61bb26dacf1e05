package locale

import "testing"

// TestErrorRoundTripsThroughIndex is spec §8's quantified invariant: for
// every language and error kind, localize then ErrorIndex recovers the
// original kind.
func TestErrorRoundTripsThroughIndex(t *testing.T) {
	for _, langID := range languageIDs() {
		lang, err := GetLanguage(langID)
		if err != nil {
			t.Fatalf("GetLanguage(%q): %v", langID, err)
		}
		for k := ErrorKind(0); k < errKindCount; k++ {
			text := LocalizeError(k, lang)
			got, ok := ErrorIndex(text, lang)
			if !ok {
				t.Fatalf("%s: ErrorIndex(%q) not found for kind %d", langID, text, k)
			}
			if got != k {
				t.Fatalf("%s: ErrorIndex(LocalizeError(%d)) = %d, want %d", langID, k, got, k)
			}
		}
	}
}

func TestParseNumberIsLocaleAware(t *testing.T) {
	en, err := Get("en")
	if err != nil {
		t.Fatalf("Get(en): %v", err)
	}
	de, err := Get("de")
	if err != nil {
		t.Fatalf("Get(de): %v", err)
	}

	if f, ok := ParseNumber("1.23", en); !ok || f != 1.23 {
		t.Fatalf("en ParseNumber(1.23) = %v, %v", f, ok)
	}
	if f, ok := ParseNumber("1,23", de); !ok || f != 1.23 {
		t.Fatalf("de ParseNumber(1,23) = %v, %v", f, ok)
	}
	// Under en, ',' is the thousand separator, not a decimal point, so
	// "1,23" strips the comma and reads as the integer 123 rather than
	// failing or reading as 1.23.
	if f, ok := ParseNumber("1,23", en); !ok || f != 123 {
		t.Fatalf("en ParseNumber(1,23) = %v, %v, want 123", f, ok)
	}
}

func TestParseNumberRejectsGarbage(t *testing.T) {
	en, _ := Get("en")
	if _, ok := ParseNumber("not a number", en); ok {
		t.Fatalf("expected ParseNumber to reject non-numeric text")
	}
	if _, ok := ParseNumber("", en); ok {
		t.Fatalf("expected ParseNumber to reject empty text")
	}
}

func TestGetUnknownLocaleIsHostErrorNotPanic(t *testing.T) {
	if _, err := Get("xx-not-a-locale"); err == nil {
		t.Fatalf("expected an error for an unknown locale id")
	}
	if _, err := GetLanguage("xx-not-a-language"); err == nil {
		t.Fatalf("expected an error for an unknown language id")
	}
}

func TestResolveAndLocalizeFunctionRoundTrip(t *testing.T) {
	lang, err := GetLanguage("en")
	if err != nil {
		t.Fatalf("GetLanguage(en): %v", err)
	}
	canonical, ok := ResolveFunction("SUM", lang)
	if !ok || canonical != "SUM" {
		t.Fatalf("ResolveFunction(SUM) = %q, %v", canonical, ok)
	}
	if got := LocalizeFunction("SUM", lang); got != "SUM" {
		t.Fatalf("LocalizeFunction(SUM) = %q, want SUM", got)
	}
}
