package convo

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Out-of-scope request keywords. Any hit rejects the prompt before a
// generation call is ever made.
var outOfScopeKeywords = []string{
	"stock price", "predict", "forecast", "guarantee",
	"legal advice", "financial advice", "investment",
	"personal data", "private information", "hack",
	"illegal", "unethical",
}

type impossiblePattern struct {
	re      *regexp.Regexp
	message string
}

var impossiblePatterns = []impossiblePattern{
	{regexp.MustCompile(`predict.*future`), "I can't predict the future, but I can analyze current trends."},
	{regexp.MustCompile(`guarantee|promise`), "I can't make guarantees, but I can provide data-driven insights."},
	{regexp.MustCompile(`hack|crack|break`), "I can't help with that. I'm designed for legitimate business research."},
	{regexp.MustCompile(`personal.*data|private.*information`), "I only work with publicly available business information."},
}

var capabilityAlternatives = []string{
	"Would you like to research a company instead?",
	"I can help you analyze publicly available business data.",
}

// CheckCapability rejects prompts that are outside the system's scope.
// Returns Valid=true with empty message when the prompt is in scope.
func CheckCapability(prompt string) Verdict {
	lower := strings.ToLower(prompt)

	for _, kw := range outOfScopeKeywords {
		if strings.Contains(lower, kw) {
			return Verdict{
				Valid:   false,
				Message: fmt.Sprintf("I can't help with %s. I'm designed for company research and account planning.", kw),
				Suggestions: []string{
					"I can research companies and generate account plans",
					"I can analyze competitors and market positioning",
					"I can help you compare multiple companies",
				},
			}
		}
	}

	for _, p := range impossiblePatterns {
		if p.re.MatchString(lower) {
			return Verdict{Valid: false, Message: p.message, Suggestions: capabilityAlternatives}
		}
	}

	return Verdict{Valid: true}
}

var deicticPronouns = []string{"it", "that", "this", "them", "those"}

var genericTerms = []string{
	"something", "anything", "stuff", "things",
	"help me", "i need", "can you",
}

// CheckAmbiguity rejects prompts too underspecified to act on. Only applied
// after the capability check passes; first failing reason wins.
func CheckAmbiguity(prompt string) Verdict {
	lower := strings.ToLower(strings.TrimSpace(prompt))
	promptLen := utf8.RuneCountInString(prompt)

	if promptLen < 5 {
		return Verdict{
			Valid:   false,
			Message: "Your request is very brief.",
			Suggestions: []string{
				"What would you like me to help you with?",
				"Are you looking to research a company?",
				"Would you like to see what I can do?",
			},
		}
	}

	for _, pronoun := range deicticPronouns {
		if strings.HasPrefix(lower, pronoun) {
			return Verdict{
				Valid:   false,
				Message: "I'm not sure what you're referring to.",
				Suggestions: []string{
					"Which company are you asking about?",
					"Could you be more specific?",
				},
			}
		}
	}

	for _, term := range genericTerms {
		if strings.Contains(lower, term) && promptLen < 30 {
			return Verdict{
				Valid:   false,
				Message: "Your request is a bit vague.",
				Suggestions: []string{
					"What specific company would you like to research?",
					"What information are you looking for?",
					"Would you like to see some examples of what I can do?",
				},
			}
		}
	}

	if strings.Count(prompt, "?") > 2 {
		return Verdict{
			Valid:   false,
			Message: "You've asked multiple questions.",
			Suggestions: []string{
				"Which question would you like me to answer first?",
				"Let's tackle these one at a time. What's most important?",
			},
		}
	}

	return Verdict{Valid: true}
}

// ValidatePrompt sanitizes and gates a prompt: capability check first, then
// ambiguity check. The first failing check wins; verdicts are never merged.
func ValidatePrompt(prompt string) Verdict {
	prompt = Sanitize(prompt)

	if prompt == "" {
		return Verdict{
			Valid:       false,
			Message:     "Please provide a message.",
			Suggestions: []string{"What would you like to know?"},
		}
	}

	if v := CheckCapability(prompt); !v.Valid {
		return v
	}
	if v := CheckAmbiguity(prompt); !v.Valid {
		return v
	}

	return Verdict{Valid: true, Message: "Valid prompt."}
}
