package ai

import (
	"context"
	"strings"
	"testing"
)

type nullProvider struct{}

func (nullProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", nil
}

func TestRegistry_NameIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Ollama", func(ctx context.Context, model string) (Provider, error) {
		return nullProvider{}, nil
	})

	if _, err := reg.Get(context.Background(), "  OLLAMA ", ""); err != nil {
		t.Fatalf("lookup should normalize the name: %v", err)
	}
}

func TestRegistry_UnknownProviderListsRegistered(t *testing.T) {
	reg := NewRegistry()
	reg.Register("ollama", func(ctx context.Context, model string) (Provider, error) {
		return nullProvider{}, nil
	})

	_, err := reg.Get(context.Background(), "gpt9", "")
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "ollama") {
		t.Fatalf("error should name the registered providers: %v", err)
	}
}
