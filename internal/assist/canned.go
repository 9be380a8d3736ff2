package assist

import "github.com/suPer8Hu/account-pilot/internal/convo"

// helpResponse answers a help intent without a generation call, adapted to
// the detected persona.
func helpResponse(persona convo.Persona) *ChatResult {
	switch persona {
	case convo.PersonaConfused:
		return &ChatResult{
			Reply: "I'm here to help you research companies! Here's what I can do:\n\n" +
				"1. Research any company - Just say 'Research Google' or 'Tell me about Microsoft'\n" +
				"2. Update information - Say 'Update revenue to $280B'\n" +
				"3. Compare companies - Research multiple companies and I'll help you compare\n\n" +
				"What would you like to start with?",
			Suggestions: []string{
				"Research a company (e.g., 'Research Apple')",
				"See an example account plan",
				"Learn about comparing companies",
			},
		}
	case convo.PersonaEfficient:
		return &ChatResult{
			Reply:       "I research companies, generate account plans, and compare options. What company?",
			Suggestions: []string{"Research [company name]", "Compare companies", "Generate best plan"},
		}
	default:
		return &ChatResult{
			Reply: "I can help you research companies and create account plans. " +
				"Just tell me which company you'd like to research, or ask me to compare multiple companies!",
			Suggestions: []string{
				"Research a specific company",
				"Compare multiple companies",
				"Update existing information",
			},
		}
	}
}

func offTopicResponse(persona convo.Persona) *ChatResult {
	reply := "I'm focused on helping with company research and account planning. " +
		"Would you like me to research a company for you?"
	if persona == convo.PersonaChatty {
		reply = "That's an interesting topic! While I'd love to chat about that, " +
			"I'm specifically designed to help with company research and account planning. " +
			"Is there a company you'd like me to research?"
	}
	return &ChatResult{
		Reply: reply,
		Suggestions: []string{
			"Research a company",
			"See what I can do",
			"Generate an account plan",
		},
	}
}

// contextualSuggestions synthesizes next-step suggestions when the
// generation backend omits them, from intent and session company count.
func contextualSuggestions(intent convo.Intent, companyCount int) []string {
	var out []string

	switch intent {
	case convo.IntentResearch:
		out = append(out, "Update specific information")
		if companyCount >= 1 {
			out = append(out, "Research another company to compare")
		}
	case convo.IntentUpdate:
		out = append(out, "Research another company", "View current account plan")
	}

	switch {
	case companyCount >= 2:
		out = append(out, "Generate best plan from all companies")
	case companyCount == 1:
		out = append(out, "Research a competitor")
	default:
		out = append(out, "Research your first company")
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// stateSuggestions backs the /suggestions endpoint: purely a function of
// how many companies the session holds.
func stateSuggestions(companyCount int) []string {
	switch {
	case companyCount == 0:
		return []string{
			"Research your first company",
			"See what I can do",
			"Get help with company research",
		}
	case companyCount == 1:
		return []string{
			"Research a competitor",
			"Update company information",
			"Find key stakeholders",
		}
	default:
		return []string{
			"Generate best plan from all companies",
			"Compare companies side-by-side",
			"Research another company",
		}
	}
}
