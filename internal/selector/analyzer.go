// Package selector turns free-text generation requests into normalized task
// descriptors and picks the capability best suited to serve them.
package selector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/chat"
)

// Reasoner is the language-capable backend classification and selection
// delegate to. *chat.Client satisfies it.
type Reasoner interface {
	Complete(ctx context.Context, req chat.Request) (string, error)
}

const analyzeSystemPrompt = `You are an AI model selection expert. Analyze the user request and determine:
1. Task type (text_generation, image_generation, video_generation, analysis, coding)
2. Content style (professional, creative, technical, casual, cinematic, infographic)
3. Complexity level (low, medium, high)
4. Specific requirements or preferences

Respond with JSON in this format:
{
  "task_type": "string",
  "content_style": "string",
  "complexity": "string",
  "specific_requirements": ["array", "of", "strings"]
}`

// Analyzer classifies generation requests into task descriptors.
type Analyzer struct {
	reasoner Reasoner
	logger   *infra.Logger
}

// NewAnalyzer constructs an analyzer over the given reasoning backend.
func NewAnalyzer(reasoner Reasoner, logger *infra.Logger) *Analyzer {
	return &Analyzer{reasoner: reasoner, logger: logger}
}

// Analyze classifies requestText, merging the optional context bag into the
// prompt. Empty input is the only error path; every reasoning failure is
// recovered into the deterministic default descriptor so callers always
// receive a fully populated descriptor.
func (a *Analyzer) Analyze(ctx context.Context, requestText string, extra map[string]string) (domain.TaskDescriptor, error) {
	if strings.TrimSpace(requestText) == "" {
		return domain.TaskDescriptor{}, fmt.Errorf("%w: request text is required", domain.ErrValidation)
	}
	if a.reasoner == nil {
		return domain.DefaultTaskDescriptor(), nil
	}

	user := fmt.Sprintf("Analyze this request: %q", requestText)
	if len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(user)
		b.WriteString("\nContext:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n- %s: %s", k, extra[k])
		}
		user = b.String()
	}

	reply, err := a.reasoner.Complete(ctx, chat.Request{
		System:   analyzeSystemPrompt,
		User:     user,
		JSONMode: true,
	})
	if err != nil {
		a.warn(err, "analyze: reasoning call failed")
		return domain.DefaultTaskDescriptor(), nil
	}
	task, err := parsePayload[domain.TaskDescriptor](reply)
	if err != nil {
		a.warn(fmt.Errorf("%w: %v", domain.ErrClassification, err), "analyze: malformed classification payload")
		return domain.DefaultTaskDescriptor(), nil
	}
	task.Normalize()
	task.Requirements = cleanTags(task.Requirements)
	return task, nil
}

// cleanTags drops blank and duplicate requirement tags while preserving
// order.
func cleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (a *Analyzer) warn(err error, msg string) {
	if a.logger == nil {
		return
	}
	a.logger.Warn().Err(err).Msg(msg)
}
