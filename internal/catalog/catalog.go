// Package catalog holds the static registry of addressable generation
// backends. The catalog is defined once at process start and never mutated.
package catalog

import "server/internal/domain"

// Provider tags the company that owns a capability. The set is closed;
// adapters switch exhaustively over it.
type Provider string

const (
	ProviderXAI        Provider = "xai"
	ProviderGemini     Provider = "gemini"
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderRunway     Provider = "runway"
	ProviderStability  Provider = "stability"
	ProviderMidjourney Provider = "midjourney"
	ProviderHeyGen     Provider = "heygen"
)

// Capability describes one addressable model: its identity, owner, what it
// is good at, and a 1-10 relative quality signal.
type Capability struct {
	Model        string   `json:"model"`
	Provider     Provider `json:"provider"`
	Strengths    []string `json:"strengths"`
	UseCases     []string `json:"use_cases"`
	QualityScore int      `json:"quality_score"`
}

// Credentials records which providers have a configured credential. It is
// derived from the environment once and treated as read-only afterwards.
type Credentials map[Provider]bool

// Registry is a read-only catalog of capabilities preserving definition
// order, with lookup by model identifier.
type Registry struct {
	caps  []Capability
	index map[string]int
}

// NewRegistry builds a registry from the given capabilities. Later entries
// with a duplicate model name are ignored.
func NewRegistry(caps []Capability) *Registry {
	r := &Registry{
		caps:  make([]Capability, 0, len(caps)),
		index: make(map[string]int, len(caps)),
	}
	for _, c := range caps {
		if _, ok := r.index[c.Model]; ok {
			continue
		}
		r.index[c.Model] = len(r.caps)
		r.caps = append(r.caps, c)
	}
	return r
}

// Lookup returns the capability registered under model, if any.
func (r *Registry) Lookup(model string) (Capability, bool) {
	i, ok := r.index[model]
	if !ok {
		return Capability{}, false
	}
	return r.caps[i], true
}

// All returns every capability in registry order. The returned slice is a
// copy; callers may not mutate the catalog through it.
func (r *Registry) All() []Capability {
	out := make([]Capability, len(r.caps))
	copy(out, r.caps)
	return out
}

// ByProvider returns the capabilities owned by the given provider, in
// registry order.
func (r *Registry) ByProvider(p Provider) []Capability {
	var out []Capability
	for _, c := range r.caps {
		if c.Provider == p {
			out = append(out, c)
		}
	}
	return out
}

// IsAvailable reports whether a capability can be invoked, defined purely by
// credential presence for its owning provider. No network check is made.
func (r *Registry) IsAvailable(model string, creds Credentials) bool {
	c, ok := r.Lookup(model)
	if !ok {
		return false
	}
	return creds[c.Provider]
}

// DefaultFor returns the fixed fallback capability for a task kind. The
// result is always present in the default registry.
func (r *Registry) DefaultFor(task domain.TaskType) Capability {
	var model string
	switch task {
	case domain.TaskImageGeneration:
		model = DefaultImageModel
	case domain.TaskVideoGeneration:
		model = DefaultVideoModel
	default:
		model = DefaultTextModel
	}
	if c, ok := r.Lookup(model); ok {
		return c
	}
	return r.caps[0]
}
