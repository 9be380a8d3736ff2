package convo

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize_CollapsesAndTrims(t *testing.T) {
	got := Sanitize("  Research   \t Google \n ")
	if got != "Research Google" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSanitize_StripsControlCharacters(t *testing.T) {
	got := Sanitize("Rese\x00arch\x07 Acme")
	if got != "Research Acme" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSanitize_TruncatesTo1000(t *testing.T) {
	got := Sanitize(strings.Repeat("a", 1500))
	if len(got) != 1000 {
		t.Fatalf("expected 1000 chars, got %d", len(got))
	}
}

// The cap counts runes: multi-byte input is truncated on a character
// boundary, never leaving an invalid UTF-8 tail.
func TestSanitize_TruncatesRunesNotBytes(t *testing.T) {
	got := Sanitize(strings.Repeat("é", 1500))
	if n := utf8.RuneCountInString(got); n != 1000 {
		t.Fatalf("expected 1000 runes, got %d", n)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8")
	}
}

func TestSanitize_EmptyInput(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := Sanitize("   \t\n  "); got != "" {
		t.Fatalf("expected empty for whitespace-only, got %q", got)
	}
}
