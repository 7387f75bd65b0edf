package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"server/internal/domain"
)

// parseSuggestion strictly decodes the analyze reply. Only the two visual
// kinds are accepted; anything else is a classification error the caller
// degrades from.
func parseSuggestion(raw string) (domain.ContentSuggestion, error) {
	var zero domain.ContentSuggestion
	cleaned := suggestionFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded domain.ContentSuggestion
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	decoded.Suggestion = strings.ToLower(strings.TrimSpace(decoded.Suggestion))
	switch decoded.Suggestion {
	case string(domain.KindImage), string(domain.KindVideo):
	default:
		return zero, fmt.Errorf("unknown suggestion %q", decoded.Suggestion)
	}
	decoded.Reasoning = strings.TrimSpace(decoded.Reasoning)
	if decoded.Reasoning == "" {
		decoded.Reasoning = fmt.Sprintf("A %s best represents this update.", decoded.Suggestion)
	}
	return decoded, nil
}

// suggestionFragment strips code fences and surrounding prose from a
// reasoning-model reply.
func suggestionFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
