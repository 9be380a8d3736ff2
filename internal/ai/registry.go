package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ProviderFactory builds a generation backend for a model name. The ctx
// is for factories that probe the backend at construction time; the
// bundled ollama/openrouter factories ignore it.
type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry maps backend names to factories so AI_PROVIDER selects the
// generation backend at process start without callers knowing concrete
// types. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) Register(name string, f ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalizeName(name)] = f
}

// Get builds a provider for the named backend, or errors listing the
// registered names when the backend is unknown.
func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	r.mu.RLock()
	f, ok := r.factories[normalizeName(name)]
	var known []string
	if !ok {
		for k := range r.factories {
			known = append(known, k)
		}
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown ai provider %q (registered: %s)", name, strings.Join(known, ", "))
	}
	return f(ctx, model)
}
