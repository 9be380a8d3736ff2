package convo

import (
	"regexp"
	"strings"
)

const maxPromptLen = 1000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize normalizes raw input text: collapses whitespace runs to a single
// space, trims, strips control characters (newline/CR/tab survive only as
// part of the collapsed whitespace), and caps length at 1000 characters.
// The cap counts runes, not bytes, so multi-byte input is never cut
// mid-character. Empty string is a valid output for empty/whitespace-only
// input.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
		}
	}
	text = b.String()

	if len(text) > maxPromptLen {
		runes := []rune(text)
		if len(runes) > maxPromptLen {
			text = string(runes[:maxPromptLen])
		}
	}
	return text
}
