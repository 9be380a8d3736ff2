package convo

import "testing"

func userTurn(content string) Turn      { return Turn{Role: "user", Content: content} }
func assistantTurn(content string) Turn { return Turn{Role: "assistant", Content: content} }

func TestDetectPersona_UnknownBelowTwoUserTurns(t *testing.T) {
	if got := DetectPersona(nil); got != PersonaUnknown {
		t.Fatalf("empty history: got %s", got)
	}
	if got := DetectPersona([]Turn{userTurn("Research Google")}); got != PersonaUnknown {
		t.Fatalf("single user turn: got %s", got)
	}
}

func TestDetectPersona_Efficient(t *testing.T) {
	history := []Turn{
		userTurn("research A"),
		userTurn("update B"),
		userTurn("show plans"),
	}
	if got := DetectPersona(history); got != PersonaEfficient {
		t.Fatalf("got %s, want efficient", got)
	}
}

func TestDetectPersona_Confused(t *testing.T) {
	history := []Turn{
		userTurn("I'm not sure what I want"),
		userTurn("maybe something with companies?"),
	}
	if got := DetectPersona(history); got != PersonaConfused {
		t.Fatalf("got %s, want confused", got)
	}
}

func TestDetectPersona_Chatty(t *testing.T) {
	long := "By the way, I was reading about enterprise software trends yesterday and found the whole market fascinating, anyway I digress."
	history := []Turn{
		userTurn(long),
		userTurn(long + " Also, what a year it has been for tech companies overall."),
	}
	if got := DetectPersona(history); got != PersonaChatty {
		t.Fatalf("got %s, want chatty", got)
	}
}

// Non-user turns must not influence the result: inserting assistant turns
// anywhere in the history leaves the persona unchanged.
func TestDetectPersona_IgnoresAssistantTurns(t *testing.T) {
	users := []Turn{
		userTurn("research A"),
		userTurn("update B"),
		userTurn("show plans"),
	}
	withAssistants := []Turn{
		assistantTurn("Here is what I found? Let me know?"),
		users[0],
		assistantTurn("Done. Anything else? More questions? Even more?"),
		users[1],
		assistantTurn("Sure."),
		users[2],
		assistantTurn("Updated."),
	}

	want := DetectPersona(users)
	if got := DetectPersona(withAssistants); got != want {
		t.Fatalf("assistant turns changed persona: got %s, want %s", got, want)
	}
}

func TestDetectPersona_PlainSessionUnknown(t *testing.T) {
	history := []Turn{
		userTurn("The Acme quarterly report looked solid"),
		userTurn("Their enterprise segment grew nicely"),
	}
	if got := DetectPersona(history); got != PersonaUnknown {
		t.Fatalf("got %s, want unknown", got)
	}
}
