package convo

import "testing"

func TestResolveReferences_ReplacesWithLastCompany(t *testing.T) {
	history := []Turn{
		{Role: "assistant", Content: "Here is what I found.", Metadata: map[string]string{"company_name": "Google"}},
	}
	got := ResolveReferences("Tell me more about it", history)
	if got != "Tell me more about Google" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveReferences_UsesMostRecentCompany(t *testing.T) {
	history := []Turn{
		{Role: "assistant", Content: "ok", Metadata: map[string]string{"company_name": "Google"}},
		{Role: "user", Content: "thanks"},
		{Role: "assistant", Content: "ok", Metadata: map[string]string{"company_name": "Microsoft"}},
	}
	got := ResolveReferences("Update that company", history)
	if got != "Update Microsoft" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveReferences_NoCompanyInHistory(t *testing.T) {
	history := []Turn{
		{Role: "assistant", Content: "Hello!"},
		{Role: "user", Content: "hi"},
	}
	got := ResolveReferences("Tell me more about it", history)
	if got != "Tell me more about it" {
		t.Fatalf("prompt should be unchanged, got %q", got)
	}
}

func TestResolveReferences_EmptyHistory(t *testing.T) {
	got := ResolveReferences("Tell me more about it", nil)
	if got != "Tell me more about it" {
		t.Fatalf("got %q", got)
	}
}

// Replacement is raw-substring, not word-boundary: "it" inside an
// unrelated word is rewritten too. This pins the documented limitation so
// any future move to word-boundary matching shows up as a deliberate test
// change.
func TestResolveReferences_SubstringLimitation(t *testing.T) {
	history := []Turn{
		{Role: "assistant", Content: "ok", Metadata: map[string]string{"company_name": "Acme"}},
	}
	got := ResolveReferences("Is the suite profitable", history)
	if got != "Is the suAcmee profAcmeable" {
		t.Fatalf("expected substring rewrite, got %q", got)
	}
}
