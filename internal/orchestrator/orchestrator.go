// Package orchestrator coordinates multi-provider content generation: it
// classifies each requested content kind, resolves a capability through the
// selector, dispatches to the matching provider adapter and merges the
// normalized results into one bundle.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/chat"
	"server/internal/providers/gemini"
	"server/internal/providers/heygen"
	"server/internal/providers/runway"
	"server/internal/selector"
)

// SelectBest is the selectedModel sentinel meaning "run selection".
const SelectBest = "best"

// VideoMode decides how the avatar-video fast path behaves.
type VideoMode string

const (
	// VideoModeWait polls the submitted job to completion within the
	// attempt budget.
	VideoModeWait VideoMode = "wait"
	// VideoModeAsync returns a processing placeholder immediately and lets
	// a detached watcher finish the job; its outcome is observable only via
	// logs and metrics.
	VideoModeAsync VideoMode = "async"
)

// TextCompleter is the synchronous text generation contract.
type TextCompleter interface {
	Complete(ctx context.Context, req chat.Request) (string, error)
	Model() string
	HasCredentials() bool
}

// ImageGenerator is the synchronous inline-image generation contract.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.ImageAsset, error)
	Model() string
	HasCredentials() bool
}

// AvatarVideoClient is the asynchronous submit-then-poll video contract.
type AvatarVideoClient interface {
	Submit(ctx context.Context, req heygen.VideoRequest) (*heygen.Job, error)
	Poll(ctx context.Context, job *heygen.Job) (heygen.JobStatus, error)
	HasCredentials() bool
}

// CinematicVideoClient is the synchronous download-the-asset video contract.
type CinematicVideoClient interface {
	GenerateVideo(ctx context.Context, req runway.VideoRequest) (*runway.VideoAsset, error)
	Model() string
	HasCredentials() bool
}

// BlobStore persists generated bytes and returns their public reference.
type BlobStore interface {
	SaveBlob(ctx context.Context, prefix, ext string, data []byte) (string, error)
}

// TaskAnalyzer normalizes free-text requests into task descriptors.
type TaskAnalyzer interface {
	Analyze(ctx context.Context, requestText string, extra map[string]string) (domain.TaskDescriptor, error)
}

// ModelPicker resolves capabilities for task descriptors.
type ModelPicker interface {
	SelectBestModel(ctx context.Context, task domain.TaskDescriptor) selector.Recommendation
	RankedOptions(task domain.TaskDescriptor, count int) []selector.Recommendation
}

// Options wires an Orchestrator. All collaborators are constructed once at
// process start and injected, so tests can substitute doubles.
type Options struct {
	Registry    *catalog.Registry
	Credentials catalog.Credentials
	Analyzer    TaskAnalyzer
	Selector    ModelPicker
	// TextClients maps text-capable provider tags to their clients. The
	// default text provider (xai) doubles as the reasoning backend.
	TextClients     map[catalog.Provider]TextCompleter
	ImageClient     ImageGenerator
	AvatarClient    AvatarVideoClient
	CinematicClient CinematicVideoClient
	Store           BlobStore
	Logger          *infra.Logger
	VideoMode       VideoMode
	PollInterval    time.Duration
	PollMaxAttempts int
}

// Orchestrator implements the generation workflow over injected adapters.
type Orchestrator struct {
	registry        *catalog.Registry
	creds           catalog.Credentials
	analyzer        TaskAnalyzer
	selector        ModelPicker
	textClients     map[catalog.Provider]TextCompleter
	imageClient     ImageGenerator
	avatarClient    AvatarVideoClient
	cinematicClient CinematicVideoClient
	store           BlobStore
	logger          *infra.Logger
	videoMode       VideoMode
	pollInterval    time.Duration
	pollMaxAttempts int
}

// New constructs an orchestrator, applying polling defaults.
func New(opts Options) *Orchestrator {
	mode := opts.VideoMode
	if mode != VideoModeAsync {
		mode = VideoModeWait
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	attempts := opts.PollMaxAttempts
	if attempts <= 0 {
		attempts = 60
	}
	return &Orchestrator{
		registry:        opts.Registry,
		creds:           opts.Credentials,
		analyzer:        opts.Analyzer,
		selector:        opts.Selector,
		textClients:     opts.TextClients,
		imageClient:     opts.ImageClient,
		avatarClient:    opts.AvatarClient,
		cinematicClient: opts.CinematicClient,
		store:           opts.Store,
		logger:          opts.Logger,
		videoMode:       mode,
		pollInterval:    interval,
		pollMaxAttempts: attempts,
	}
}

// ModelCatalog is the listAvailableModels response shape.
type ModelCatalog struct {
	Capabilities         []catalog.Capability      `json:"capabilities"`
	ProviderAvailability map[catalog.Provider]bool `json:"provider_availability"`
}

// ListModels returns the full capability catalog together with per-provider
// credential availability.
func (o *Orchestrator) ListModels() ModelCatalog {
	availability := make(map[catalog.Provider]bool)
	for _, c := range o.registry.All() {
		availability[c.Provider] = o.creds[c.Provider]
	}
	return ModelCatalog{
		Capabilities:         o.registry.All(),
		ProviderAvailability: availability,
	}
}

// TaskRecommendations is the recommend response shape.
type TaskRecommendations struct {
	Task            domain.TaskDescriptor     `json:"task"`
	Recommendations []selector.Recommendation `json:"recommendations"`
}

// Recommend classifies a task description and returns the locally ranked
// capability options for it.
func (o *Orchestrator) Recommend(ctx context.Context, description string) (*TaskRecommendations, error) {
	task, err := o.analyzer.Analyze(ctx, description, nil)
	if err != nil {
		return nil, err
	}
	return &TaskRecommendations{
		Task:            task,
		Recommendations: o.selector.RankedOptions(task, 3),
	}, nil
}

const analyzeUpdateSystemPrompt = `You are an expert content strategist. Analyze founder update text and suggest whether an image or video would best represent the content.

Consider:
- If the update contains data, metrics, or comparisons, suggest 'image' for infographics
- If the update describes processes, workflows, or storytelling, suggest 'video' for explainers
- If the update is about milestones, achievements, or announcements, suggest 'image' for visual impact

Respond with JSON in this format:
{
  "suggestion": "image" or "video",
  "reasoning": "Brief explanation of why this format works best"
}`

// defaultSuggestion is what Analyze degrades to when the reasoning call
// cannot produce a usable answer.
func defaultSuggestion() domain.ContentSuggestion {
	return domain.ContentSuggestion{
		Suggestion: "image",
		Reasoning:  "Defaulting to an image: visual summaries suit most founder updates and the analysis backend was unavailable.",
	}
}

// Analyze suggests the visual content kind for a founder update. Empty input
// is the only error path; reasoning failures degrade to the default
// suggestion so the result always carries a valid kind and reasoning.
func (o *Orchestrator) Analyze(ctx context.Context, updateText string) (domain.ContentSuggestion, error) {
	if strings.TrimSpace(updateText) == "" {
		return domain.ContentSuggestion{}, fmt.Errorf("%w: update text is required", domain.ErrValidation)
	}
	reasoner := o.defaultTextClient()
	if reasoner == nil || !reasoner.HasCredentials() {
		return defaultSuggestion(), nil
	}
	reply, err := reasoner.Complete(ctx, chat.Request{
		System:   analyzeUpdateSystemPrompt,
		User:     updateText,
		JSONMode: true,
	})
	if err != nil {
		o.warn(err, "analyze: reasoning call failed")
		return defaultSuggestion(), nil
	}
	suggestion, err := parseSuggestion(reply)
	if err != nil {
		o.warn(fmt.Errorf("%w: %v", domain.ErrClassification, err), "analyze: malformed suggestion payload")
		return defaultSuggestion(), nil
	}
	return suggestion, nil
}

func (o *Orchestrator) defaultTextClient() TextCompleter {
	if c, ok := o.textClients[catalog.ProviderXAI]; ok {
		return c
	}
	for _, c := range o.textClients {
		return c
	}
	return nil
}

func (o *Orchestrator) warn(err error, msg string) {
	if o.logger == nil {
		return
	}
	o.logger.Warn().Err(err).Msg(msg)
}

func (o *Orchestrator) info(msg string) {
	if o.logger == nil {
		return
	}
	o.logger.Info().Msg(msg)
}
