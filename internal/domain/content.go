package domain

import (
	"fmt"
	"strings"
)

// ContentKind identifies one generated artifact within a bundle.
type ContentKind string

const (
	KindBlog     ContentKind = "blog"
	KindLinkedIn ContentKind = "linkedin"
	KindImage    ContentKind = "image"
	KindVideo    ContentKind = "video"
)

// ParseContentKind validates a caller-supplied kind string.
func ParseContentKind(raw string) (ContentKind, error) {
	switch ContentKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindBlog:
		return KindBlog, nil
	case KindLinkedIn:
		return KindLinkedIn, nil
	case KindImage:
		return KindImage, nil
	case KindVideo:
		return KindVideo, nil
	default:
		return "", fmt.Errorf("%w: unknown content kind %q", ErrValidation, raw)
	}
}

// ContentSuggestion is the outcome of analyzing a founder update: which
// visual kind would represent it best, and why.
type ContentSuggestion struct {
	Suggestion string `json:"suggestion"`
	Reasoning  string `json:"reasoning"`
}

// ContentBundle aggregates every artifact produced for one generate call.
// A field is populated iff the matching kind was requested and succeeded;
// the video reference may be a placeholder when the provider chain degraded.
type ContentBundle struct {
	BlogText        string                 `json:"blog_text,omitempty"`
	LinkedInText    string                 `json:"linkedin_text,omitempty"`
	ImageURL        string                 `json:"image_url,omitempty"`
	VideoURL        string                 `json:"video_url,omitempty"`
	ModelSelections map[ContentKind]string `json:"model_selections"`
}

// NewContentBundle returns an empty bundle ready for incremental assembly.
func NewContentBundle() *ContentBundle {
	return &ContentBundle{ModelSelections: make(map[ContentKind]string)}
}
