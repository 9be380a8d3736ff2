package convo

import "testing"

func TestClassifyIntent_KeywordFamilies(t *testing.T) {
	cases := []struct {
		prompt string
		want   Intent
	}{
		{"What can you do for me", IntentHelp},
		{"how do i get started", IntentHelp},
		{"Research Stripe", IntentResearch},
		{"tell me about Datadog", IntentResearch},
		{"look up Snowflake financials", IntentResearch},
		{"Update the revenue to $5B", IntentUpdate},
		{"modify the sales strategy", IntentUpdate},
		{"what do you mean by GTM", IntentClarify},
		{"what's the weather like", IntentOffTopic},
		{"tell me a joke", IntentOffTopic},
	}
	for _, tc := range cases {
		if got := ClassifyIntent(tc.prompt, nil); got != tc.want {
			t.Fatalf("prompt %q: got %s, want %s", tc.prompt, got, tc.want)
		}
	}
}

func TestClassifyIntent_PriorityOrder(t *testing.T) {
	// "help" outranks "research" when both families match.
	if got := ClassifyIntent("help me research companies", nil); got != IntentHelp {
		t.Fatalf("got %s, want help", got)
	}
	// "research" outranks "update".
	if got := ClassifyIntent("research the update cycle of Acme", nil); got != IntentResearch {
		t.Fatalf("got %s, want research", got)
	}
}

func TestClassifyIntent_ShortQuestionIsChat(t *testing.T) {
	if got := ClassifyIntent("really?", nil); got != IntentChat {
		t.Fatalf("got %s, want chat", got)
	}
}

func TestClassifyIntent_AssistantQuestionAnywhereMakesClarify(t *testing.T) {
	history := []Turn{
		{Role: "assistant", Content: "Which region should I focus the plan on?"},
	}
	if got := ClassifyIntent("the EMEA region mostly", history); got != IntentClarify {
		t.Fatalf("got %s, want clarify", got)
	}

	// The question mark may appear anywhere in the assistant turn, not
	// only at the end.
	midQuestion := []Turn{
		{Role: "assistant", Content: "Which region? I'll assume global unless you say otherwise."},
	}
	if got := ClassifyIntent("the EMEA region mostly", midQuestion); got != IntentClarify {
		t.Fatalf("mid-content question: got %s, want clarify", got)
	}
}

func TestClassifyIntent_DefaultsToResearch(t *testing.T) {
	if got := ClassifyIntent("Acme Corporation enterprise accounts", nil); got != IntentResearch {
		t.Fatalf("got %s, want research", got)
	}

	// A non-question assistant turn does not trigger the clarify fallback.
	history := []Turn{{Role: "assistant", Content: "Saved the plan."}}
	if got := ClassifyIntent("Acme Corporation enterprise accounts", history); got != IntentResearch {
		t.Fatalf("got %s, want research", got)
	}
}
