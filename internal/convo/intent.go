package convo

import "strings"

var helpKeywords = []string{"what can you", "how do i", "help", "capabilities", "what do you do"}
var researchKeywords = []string{"research", "find information", "look up", "tell me about", "analyze"}
var updateKeywords = []string{"update", "change", "modify", "edit", "set", "fix"}
var clarifyKeywords = []string{"what do you mean", "can you explain", "i don't understand", "clarify"}
var offTopicKeywords = []string{"weather", "news", "joke", "story", "how are you"}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ClassifyIntent maps a resolved prompt plus the last assistant turn to an
// intent. Keyword families are checked in fixed priority order; the first
// match wins. Unclassified input defaults to research, the system's core
// (and most useful) path.
func ClassifyIntent(prompt string, history []Turn) Intent {
	lower := strings.ToLower(strings.TrimSpace(prompt))

	switch {
	case containsAny(lower, helpKeywords):
		return IntentHelp
	case containsAny(lower, researchKeywords):
		return IntentResearch
	case containsAny(lower, updateKeywords):
		return IntentUpdate
	case containsAny(lower, clarifyKeywords):
		return IntentClarify
	case containsAny(lower, offTopicKeywords):
		return IntentOffTopic
	}

	if len(prompt) < 20 && strings.Contains(prompt, "?") {
		return IntentChat
	}

	// A trailing assistant question makes a short unclassified prompt look
	// like an answer to it.
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "assistant" {
			if strings.Contains(history[i].Content, "?") {
				return IntentClarify
			}
			break
		}
	}

	return IntentResearch
}
