package convo

import "strings"

// Referring expressions rewritten against the most recently mentioned
// company. Ordered longest-first so "that company" wins over "it" where
// both occur.
var referringExpressions = []string{
	"that company", "this company", "the company",
	"that one", "this one", "it", "them",
}

// ResolveReferences rewrites pronoun/deictic references in the prompt with
// the company name from the most recent assistant turn carrying a
// company_name metadata entry. If no such turn exists the prompt is
// returned unchanged.
//
// Replacement is raw-substring, not word-boundary: a referring expression
// occurring inside an unrelated word is rewritten too. This mirrors the
// documented behavior of the rule set and is pinned by a test.
func ResolveReferences(prompt string, history []Turn) string {
	if len(history) == 0 {
		return prompt
	}

	var lastCompany string
	for i := len(history) - 1; i >= 0; i-- {
		t := history[i]
		if t.Role != "assistant" || t.Metadata == nil {
			continue
		}
		if name, ok := t.Metadata["company_name"]; ok && name != "" {
			lastCompany = name
			break
		}
	}
	if lastCompany == "" {
		return prompt
	}

	lower := strings.ToLower(prompt)
	for _, ref := range referringExpressions {
		if !strings.Contains(lower, ref) {
			continue
		}
		prompt = strings.ReplaceAll(prompt, ref, lastCompany)
		prompt = strings.ReplaceAll(prompt, capitalize(ref), lastCompany)
		lower = strings.ToLower(prompt)
	}
	return prompt
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
