package selector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/metrics"
	"server/internal/providers/chat"
)

// FallbackReasoning is the reasoning string carried by every fallback
// recommendation.
const FallbackReasoning = "fallback due to selection error"

const fallbackConfidence = 0.5

// Recommendation is the outcome of selection for one task descriptor. The
// primary capability always resolves to a registry entry.
type Recommendation struct {
	Primary     catalog.Capability  `json:"primary_model"`
	Alternative *catalog.Capability `json:"alternative_model,omitempty"`
	Reasoning   string              `json:"reasoning"`
	Confidence  float64             `json:"confidence"`
}

// Selector ranks and picks capabilities for task descriptors.
type Selector struct {
	registry *catalog.Registry
	reasoner Reasoner
	logger   *infra.Logger
}

// NewSelector constructs a selector over the given registry and reasoning
// backend.
func NewSelector(registry *catalog.Registry, reasoner Reasoner, logger *infra.Logger) *Selector {
	return &Selector{registry: registry, reasoner: reasoner, logger: logger}
}

type selectionPayload struct {
	PrimaryModel     string  `json:"primary_model"`
	AlternativeModel string  `json:"alternative_model"`
	Reasoning        string  `json:"reasoning"`
	Confidence       float64 `json:"confidence"`
}

const selectSystemPromptFmt = `You are an expert at selecting the best AI model for each task. Given a task analysis and available models, recommend the best model.

Available models:
%s

Consider:
- Model strengths vs task requirements
- Quality scores for the task type
- Specific use cases
- Content style preferences

Respond with JSON:
{
  "primary_model": "model_name",
  "alternative_model": "model_name_or_null",
  "reasoning": "detailed explanation",
  "confidence": 0.95
}`

// SelectBestModel issues one reasoning call over the serialized registry and
// validates the returned names against it. Every failure mode (network,
// parse, unknown name) collapses into the deterministic fallback
// recommendation; the method itself never fails.
func (s *Selector) SelectBestModel(ctx context.Context, task domain.TaskDescriptor) Recommendation {
	if s.reasoner == nil {
		return s.fallback(task, fmt.Errorf("%w: no reasoner configured", domain.ErrSelection))
	}
	registryJSON, err := json.MarshalIndent(s.registry.All(), "", "  ")
	if err != nil {
		return s.fallback(task, err)
	}
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return s.fallback(task, err)
	}

	reply, err := s.reasoner.Complete(ctx, chat.Request{
		System:   fmt.Sprintf(selectSystemPromptFmt, string(registryJSON)),
		User:     fmt.Sprintf("Select best model for: %s", string(taskJSON)),
		JSONMode: true,
	})
	if err != nil {
		return s.fallback(task, err)
	}
	payload, err := parsePayload[selectionPayload](reply)
	if err != nil {
		return s.fallback(task, fmt.Errorf("%w: %v", domain.ErrSelection, err))
	}

	primary, ok := s.registry.Lookup(strings.TrimSpace(payload.PrimaryModel))
	if !ok {
		return s.fallback(task, fmt.Errorf("%w: unknown primary model %q", domain.ErrSelection, payload.PrimaryModel))
	}
	rec := Recommendation{
		Primary:    primary,
		Reasoning:  strings.TrimSpace(payload.Reasoning),
		Confidence: payload.Confidence,
	}
	if alt := strings.TrimSpace(payload.AlternativeModel); alt != "" && !strings.EqualFold(alt, "null") {
		if altCap, ok := s.registry.Lookup(alt); ok {
			rec.Alternative = &altCap
		}
	}
	if rec.Reasoning == "" {
		rec.Reasoning = fmt.Sprintf("%s recommended for %s", primary.Model, task.Type)
	}
	if rec.Confidence <= 0 || rec.Confidence > 1 {
		rec.Confidence = 0.8
	}
	return rec
}

// RankedOptions is a purely local, deterministic ranking over the registry:
// no network call is made. Candidates are filtered by the kind compatibility
// table, scored as quality plus a style-match bonus, and stably sorted so
// registry order breaks ties.
func (s *Selector) RankedOptions(task domain.TaskDescriptor, count int) []Recommendation {
	if count <= 0 {
		return nil
	}
	compatible := CompatibleProviders(task.Type)
	var candidates []catalog.Capability
	for _, c := range s.registry.All() {
		if providerCompatible(c.Provider, compatible) {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i], task.Style) > score(candidates[j], task.Style)
	})

	n := len(candidates)
	if count > n {
		count = n
	}
	out := make([]Recommendation, 0, count)
	for i := 0; i < count; i++ {
		c := candidates[i]
		confidence := float64(n-i) / float64(n)
		if confidence < 0.6 {
			confidence = 0.6
		}
		out = append(out, Recommendation{
			Primary:    c,
			Reasoning:  fmt.Sprintf("%s selected for %s %s. Strengths: %s", c.Model, task.Style, task.Type, strings.Join(c.Strengths, ", ")),
			Confidence: confidence,
		})
	}
	return out
}

func (s *Selector) fallback(task domain.TaskDescriptor, cause error) Recommendation {
	if s.logger != nil {
		s.logger.Warn().Err(cause).Str("task_type", string(task.Type)).Msg("selector: falling back to default capability")
	}
	metrics.SelectionFallback()
	return Recommendation{
		Primary:    s.registry.DefaultFor(task.Type),
		Reasoning:  FallbackReasoning,
		Confidence: fallbackConfidence,
	}
}

// CompatibleProviders is the fixed kind-to-provider compatibility table.
// Analysis and coding tasks are served by the text providers.
func CompatibleProviders(t domain.TaskType) []catalog.Provider {
	switch t {
	case domain.TaskImageGeneration:
		return []catalog.Provider{catalog.ProviderGemini, catalog.ProviderOpenAI, catalog.ProviderMidjourney, catalog.ProviderStability}
	case domain.TaskVideoGeneration:
		return []catalog.Provider{catalog.ProviderRunway, catalog.ProviderHeyGen}
	default:
		return []catalog.Provider{catalog.ProviderXAI, catalog.ProviderOpenAI, catalog.ProviderAnthropic}
	}
}

func providerCompatible(p catalog.Provider, allowed []catalog.Provider) bool {
	for _, a := range allowed {
		if p == a {
			return true
		}
	}
	return false
}

func score(c catalog.Capability, style domain.ContentStyle) int {
	bonus := 0
	if styleMatches(c, style) {
		bonus = 1
	}
	return c.QualityScore + 2*bonus
}

func styleMatches(c catalog.Capability, style domain.ContentStyle) bool {
	needle := strings.ToLower(strings.TrimSpace(string(style)))
	if needle == "" {
		return false
	}
	for _, s := range c.Strengths {
		if strings.ToLower(s) == needle {
			return true
		}
	}
	for _, uc := range c.UseCases {
		if strings.Contains(strings.ToLower(uc), needle) {
			return true
		}
	}
	return false
}
