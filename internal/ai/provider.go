// Package ai wraps the generative text-completion backends behind a
// narrow collaborator contract: a system directive plus user text in, raw
// text out. Prompt assembly and JSON parsing live in the assist package.
package ai

import "context"

type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
