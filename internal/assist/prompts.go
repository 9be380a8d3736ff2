package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/suPer8Hu/account-pilot/internal/convo"
)

// personaInstructions maps every persona to its response-style directive.
// The switch is exhaustive over the enum; a new persona without a fragment
// is a compile-visible gap, not a silent empty lookup.
func personaInstructions(p convo.Persona) string {
	switch p {
	case convo.PersonaConfused:
		return "The user seems CONFUSED or UNCERTAIN. Adapt your response style:\n" +
			"- Ask clarifying questions to understand their needs\n" +
			"- Provide step-by-step guidance\n" +
			"- Offer specific examples of what you can do\n" +
			"- Be patient and encouraging\n" +
			"- Break down complex information into simple steps\n" +
			"- Use phrases like 'Let me help you with that' or 'Here's what I can do'\n"
	case convo.PersonaEfficient:
		return "The user is EFFICIENT and wants QUICK RESULTS. Adapt your response style:\n" +
			"- Be extremely concise (1 sentence max)\n" +
			"- Get straight to the point\n" +
			"- No unnecessary explanations\n" +
			"- Focus on action and results\n" +
			"- Use phrases like 'Done' or 'Researched X' or 'Updated'\n"
	case convo.PersonaChatty:
		return "The user is CHATTY and conversational. Adapt your response style:\n" +
			"- Engage naturally but stay focused on the task\n" +
			"- Acknowledge their conversational tone\n" +
			"- Gently guide back to research objectives\n" +
			"- Be friendly but professional\n" +
			"- Use phrases like 'Great question!' or 'I'd be happy to help with that'\n"
	case convo.PersonaEdgeCase:
		return "The user may be providing EDGE CASE inputs. Adapt your response style:\n" +
			"- Politely point out any issues with their request\n" +
			"- Explain what you CAN do instead\n" +
			"- Provide helpful alternatives\n" +
			"- Be clear about your capabilities and limitations\n"
	case convo.PersonaUnknown:
		return ""
	}
	return ""
}

func intentInstructions(i convo.Intent) string {
	switch i {
	case convo.IntentHelp:
		return "The user is asking for HELP or wants to know your capabilities.\n" +
			"Provide a clear, concise overview of what you can do with specific examples."
	case convo.IntentClarify:
		return "The user is asking for CLARIFICATION.\n" +
			"Provide a clear explanation and check if they need more details."
	case convo.IntentOffTopic:
		return "The user's message is OFF-TOPIC.\n" +
			"Politely acknowledge their message and gently redirect to your core capabilities."
	case convo.IntentChat:
		return "The user is making casual CONVERSATION.\n" +
			"Respond briefly and naturally, then offer to help with research tasks."
	case convo.IntentResearch, convo.IntentUpdate:
		return ""
	}
	return ""
}

// conversationContext renders the most recent turns (capped at 6, content
// capped at 200 chars) for the system prompt.
func conversationContext(history []convo.Turn) string {
	if len(history) == 0 {
		return ""
	}
	recent := history
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	var sb strings.Builder
	sb.WriteString("RECENT CONVERSATION:\n")
	for _, t := range recent {
		content := t.Content
		if len(content) > 200 {
			content = content[:200]
		}
		fmt.Fprintf(&sb, "%s: %s\n", strings.ToUpper(t.Role), content)
	}
	sb.WriteString("\n")
	return sb.String()
}

func companiesContext(companies []map[string]any) string {
	if len(companies) == 0 {
		return ""
	}
	b, err := json.MarshalIndent(companies, "", "  ")
	if err != nil {
		return ""
	}
	return fmt.Sprintf("EXISTING COMPANIES IN SESSION:\n%s\n\n", b)
}

const responseFormatDirective = `RESPONSE FORMAT:
You must respond with a JSON object containing:
1. 'reply': Your conversational response (adapt length based on persona)
2. 'company': Structured account plan data (if applicable)
3. 'suggestions': Array of 2-3 helpful next-step suggestions

The 'company' object should have these fields (if creating/updating):
- id (string): unique identifier
- name (string): company name
- industry (string): industry sector
- tagline (string): company tagline or mission
- revenue (string): e.g., '$50B', '$2.5B'
- employees (string): e.g., '10,000+', '50,000'
- gtm_strategy (string): detailed go-to-market strategy
- sales_strategy (string): detailed sales approach
- funding_history (array): MUST include 3-5 entries with structure [{"year": "2020", "amount": 100}, ...]. Use realistic funding amounts in millions.
- revenue_trend (array): MUST include 3-5 entries with structure [{"year": "2020", "revenue": 1000}, ...]. Use realistic revenue in millions.
- partners (array): MUST include 3-5 entries with structure [{"name": "AWS", "value": 30}, ...]. Values should sum to ~100.
- competitors (array): MUST include 3-5 entries with structure [{"name": "CompanyX", "x": 60, "y": 70}, ...]. x and y are 0-100 coordinates for positioning.

CRITICAL: When researching a new company, you MUST generate realistic sample data for ALL chart arrays. Do NOT leave them empty.

SUGGESTIONS should be contextual next steps like:
- "Compare with another company"
- "Update the revenue information"
- "Generate best plan from all companies"

Ensure valid JSON output.`

// buildSystemPrompt combines persona/intent instruction fragments with
// history, research and companies context into the single directive set
// handed to the generation collaborator.
func buildSystemPrompt(persona convo.Persona, intent convo.Intent, history []convo.Turn, researchContext string, companies []map[string]any, verbosity string) string {
	if verbosity == "" {
		verbosity = "balanced"
	}

	var sb strings.Builder
	sb.WriteString("You are a sophisticated Company Research Assistant.\n")
	sb.WriteString("Your goal is to help users research companies and generate account plans.\n\n")
	sb.WriteString(personaInstructions(persona))
	sb.WriteString(intentInstructions(intent))
	sb.WriteString("\n\n")
	sb.WriteString(conversationContext(history))
	sb.WriteString(researchContext)
	sb.WriteString(companiesContext(companies))
	sb.WriteString(responseFormatDirective)
	fmt.Fprintf(&sb, "\n\nREPLY GUIDELINES based on user verbosity preference (%s):\n", verbosity)
	sb.WriteString("- concise: 1 sentence max\n- balanced: 1-2 sentences\n- detailed: 2-3 sentences with more context\n")
	return sb.String()
}

const bestPlanSystemPrompt = `You are a strategic account planning expert. Analyze the provided companies and create a SINGLE 'best account plan' representing the most promising opportunity based on:
- Market position and growth potential
- Funding and financial health
- GTM strategy alignment
- Competitive landscape
- Partnership opportunities

Respond with JSON containing:
1. 'reply': Detailed explanation (2-3 paragraphs) of why this is the best opportunity
2. 'bestPlan': Complete company object representing the optimal target

The bestPlan should be one of the researched companies (if clearly superior) or a synthesized plan combining best elements.
Set name to 'Best Opportunity: [Company Name]' or 'Synthesized Account Plan'.
Ensure valid JSON.`

func extractionPrompt(resolvedPrompt string) string {
	return "Extract the company name from this prompt. " +
		"Return ONLY the company name, or 'NONE' if no company is mentioned.\n" +
		"Prompt: " + resolvedPrompt
}
