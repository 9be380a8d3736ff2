package convo

import "strings"

var vagueTerms = []string{
	"help", "something", "maybe", "not sure", "don't know", "what can", "how do",
}

var offTopicSignals = []string{
	"by the way", "anyway", "also", "oh", "hmm", "interesting",
}

var directCommands = []string{
	"research", "update", "change", "generate", "find", "show",
}

// DetectPersona classifies a user's interaction style from the user turns
// in the supplied history. Non-user turns are ignored entirely, so the
// result is invariant under insertion of assistant turns. Fewer than two
// user turns yields PersonaUnknown.
//
// Decision order (first match wins):
//  1. vague terms >= 2 or question ratio > 0.6  -> confused
//  2. avg length < 30 and direct commands >= 70% -> efficient
//  3. avg length > 100 or off-topic signals >= 2 -> chatty
//  4. > 5 user turns and question ratio > 0.8    -> confused
func DetectPersona(history []Turn) Persona {
	var users []Turn
	for _, t := range history {
		if t.Role == "user" {
			users = append(users, t)
		}
	}
	if len(users) < 2 {
		return PersonaUnknown
	}

	var totalLen, questions, vague, offTopic, direct int
	for _, t := range users {
		totalLen += len(t.Content)
		if strings.Contains(t.Content, "?") {
			questions++
		}
		lower := strings.ToLower(t.Content)
		for _, term := range vagueTerms {
			if strings.Contains(lower, term) {
				vague++
			}
		}
		for _, term := range offTopicSignals {
			if strings.Contains(lower, term) {
				offTopic++
			}
		}
		for _, cmd := range directCommands {
			if strings.HasPrefix(lower, cmd) {
				direct++
			}
		}
	}

	n := len(users)
	avgLen := float64(totalLen) / float64(n)
	questionRatio := float64(questions) / float64(n)

	switch {
	case vague >= 2 || questionRatio > 0.6:
		return PersonaConfused
	case avgLen < 30 && float64(direct) >= float64(n)*0.7:
		return PersonaEfficient
	case avgLen > 100 || offTopic >= 2:
		return PersonaChatty
	case n > 5 && questionRatio > 0.8:
		// safety net for highly interrogative long sessions
		return PersonaConfused
	}
	return PersonaUnknown
}
