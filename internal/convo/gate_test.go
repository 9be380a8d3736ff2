package convo

import (
	"strings"
	"testing"
)

func TestValidatePrompt_VeryBrief(t *testing.T) {
	// "héé?" is 4 runes but 6 bytes; the brevity gate counts runes.
	for _, prompt := range []string{"hi", "a", "why?", "ok", "héé?"} {
		v := ValidatePrompt(prompt)
		if v.Valid {
			t.Fatalf("prompt %q should be invalid", prompt)
		}
		if v.Message != "Your request is very brief." {
			t.Fatalf("prompt %q: unexpected message %q", prompt, v.Message)
		}
		if len(v.Suggestions) != 3 {
			t.Fatalf("prompt %q: expected 3 suggestions, got %d", prompt, len(v.Suggestions))
		}
	}
}

func TestValidatePrompt_OutOfScopeKeywords(t *testing.T) {
	cases := []string{
		"What is the stock price of Google?",
		"Can you hack into their database?",
		"Give me legal advice about this contract",
		"Research Acme and predict their revenue",
	}
	for _, prompt := range cases {
		v := ValidatePrompt(prompt)
		if v.Valid {
			t.Fatalf("prompt %q should be rejected", prompt)
		}
		if len(v.Suggestions) == 0 {
			t.Fatalf("prompt %q: expected alternative suggestions", prompt)
		}
	}
}

func TestValidatePrompt_CapabilityBeatsAmbiguity(t *testing.T) {
	// Contains a denylisted term and is also short; the capability
	// rejection must win.
	v := ValidatePrompt("hack")
	if v.Valid {
		t.Fatalf("expected invalid")
	}
	if !strings.Contains(v.Message, "company research") && !strings.Contains(v.Message, "business research") {
		t.Fatalf("expected capability message, got %q", v.Message)
	}
}

func TestValidatePrompt_DeicticStart(t *testing.T) {
	v := ValidatePrompt("that company again")
	if v.Valid {
		t.Fatalf("expected invalid")
	}
	if v.Message != "I'm not sure what you're referring to." {
		t.Fatalf("unexpected message %q", v.Message)
	}
}

func TestValidatePrompt_GenericShortRequest(t *testing.T) {
	v := ValidatePrompt("can you do something")
	if v.Valid {
		t.Fatalf("expected invalid")
	}
	if v.Message != "Your request is a bit vague." {
		t.Fatalf("unexpected message %q", v.Message)
	}

	// Same generic term in a long prompt passes.
	long := ValidatePrompt("can you research the company Datadog and build an account plan")
	if !long.Valid {
		t.Fatalf("long specific prompt should be valid, got %q", long.Message)
	}
}

func TestValidatePrompt_TooManyQuestions(t *testing.T) {
	v := ValidatePrompt("Who are they? What do they sell? Where? When did they start?")
	if v.Valid {
		t.Fatalf("expected invalid")
	}
	if v.Message != "You've asked multiple questions." {
		t.Fatalf("unexpected message %q", v.Message)
	}
}

func TestValidatePrompt_Valid(t *testing.T) {
	v := ValidatePrompt("Research Microsoft")
	if !v.Valid {
		t.Fatalf("expected valid, got %q", v.Message)
	}
	if v.Message != "Valid prompt." {
		t.Fatalf("unexpected message %q", v.Message)
	}
	if v.Suggestions != nil {
		t.Fatalf("expected nil suggestions, got %v", v.Suggestions)
	}
}

func TestValidatePrompt_EmptyAfterSanitize(t *testing.T) {
	v := ValidatePrompt("  \t \n ")
	if v.Valid {
		t.Fatalf("expected invalid")
	}
	if v.Message != "Please provide a message." {
		t.Fatalf("unexpected message %q", v.Message)
	}
}
