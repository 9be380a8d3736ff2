package convo

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Extraction templates anchored to trigger phrases, tried in order. Each
// captures a run of alphanumerics/space/&/period up to the next period or
// end of string.
var extractionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)research\s+([a-zA-Z0-9\s&.]+?)(?:\s*$|\.)`),
	regexp.MustCompile(`(?i)tell me about\s+([a-zA-Z0-9\s&.]+?)(?:\s*$|\.)`),
	regexp.MustCompile(`(?i)look up\s+([a-zA-Z0-9\s&.]+?)(?:\s*$|\.)`),
	regexp.MustCompile(`(?i)find\s+(?:information\s+(?:on|about)\s+)?([a-zA-Z0-9\s&.]+?)(?:\s*$|\.)`),
}

// ExtractCompanyName pattern-matches a target entity name out of the
// prompt. Returns "" when no template matches; the caller falls back to a
// generation-backed extraction sub-prompt.
func ExtractCompanyName(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	for _, re := range extractionPatterns {
		if m := re.FindStringSubmatch(prompt); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return ""
}

var consonantRun = regexp.MustCompile(`[bcdfghjklmnpqrstvwxyz]{6,}`)

var junkNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^test\d*$`),
	regexp.MustCompile(`^asdf+`),
	regexp.MustCompile(`^qwerty`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[^a-zA-Z0-9\s]+$`),
}

// ValidateCompanyName rejects empty, too-short/long, gibberish, and
// obvious junk names. The returned message is suitable as a direct
// conversational reply.
func ValidateCompanyName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, "Please provide a company name."
	}
	// Length limits count runes so multi-byte names are measured as the
	// user typed them.
	if utf8.RuneCountInString(name) < 2 {
		return false, "Company name is too short. Please provide a valid company name."
	}
	if utf8.RuneCountInString(name) > 100 {
		return false, "Company name is too long. Please provide a shorter name."
	}

	lower := strings.ToLower(name)
	if consonantRun.MatchString(lower) {
		return false, "This doesn't look like a valid company name. Could you clarify?"
	}
	for _, re := range junkNamePatterns {
		if re.MatchString(lower) {
			return false, "This doesn't appear to be a real company name. Please provide a valid company name."
		}
	}

	return true, "Valid company name."
}
