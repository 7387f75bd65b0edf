package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/metrics"
	"server/internal/providers/chat"
	"server/internal/providers/gemini"
	"server/internal/selector"
)

const blogSystemPrompt = `You are an expert content writer specializing in startup communications. Transform founder updates into engaging blog posts that are 300-500 words long. Maintain a professional yet approachable tone. Structure the content with clear paragraphs and make it compelling for stakeholders, customers, and the startup community.`

const linkedinSystemPrompt = `You are a social media expert specializing in LinkedIn content for startups. Transform founder updates into engaging LinkedIn posts that are 150-250 words, include relevant hashtags, and are optimized for professional networking. Keep the tone professional but personable.`

// GenerateRequest captures the inputs for one generate call.
type GenerateRequest struct {
	UpdateText string
	Kinds      []domain.ContentKind
	// SelectedModel bypasses selection when set to a registry model name.
	// Empty and the "best" sentinel both mean "run selection".
	SelectedModel string
}

// Generate produces every requested content kind concurrently and merges the
// results into one bundle. Text and image failures abort the whole call;
// video degrades to a placeholder instead. All validation happens before any
// provider is contacted.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) (*domain.ContentBundle, error) {
	text := strings.TrimSpace(req.UpdateText)
	if text == "" {
		return nil, fmt.Errorf("%w: update text is required", domain.ErrValidation)
	}
	kinds := dedupeKinds(req.Kinds)
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: at least one content kind is required", domain.ErrValidation)
	}
	override := strings.TrimSpace(req.SelectedModel)
	if strings.EqualFold(override, SelectBest) {
		override = ""
	}
	if override != "" {
		if _, ok := o.registry.Lookup(override); !ok {
			return nil, fmt.Errorf("%w: unknown model %q", domain.ErrValidation, override)
		}
	}

	bundle := domain.NewContentBundle()
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			switch kind {
			case domain.KindBlog, domain.KindLinkedIn:
				out, model, err := o.generateText(gctx, kind, text, override)
				if err != nil {
					metrics.ObserveGeneration(string(kind), metrics.OutcomeError)
					return err
				}
				metrics.ObserveGeneration(string(kind), metrics.OutcomeOK)
				mu.Lock()
				if kind == domain.KindBlog {
					bundle.BlogText = out
				} else {
					bundle.LinkedInText = out
				}
				bundle.ModelSelections[kind] = model
				mu.Unlock()
			case domain.KindImage:
				url, model, err := o.generateImage(gctx, text, override)
				if err != nil {
					metrics.ObserveGeneration(string(kind), metrics.OutcomeError)
					return err
				}
				metrics.ObserveGeneration(string(kind), metrics.OutcomeOK)
				mu.Lock()
				bundle.ImageURL = url
				bundle.ModelSelections[kind] = model
				mu.Unlock()
			case domain.KindVideo:
				url, model := o.generateVideo(gctx, text, override)
				mu.Lock()
				bundle.VideoURL = url
				bundle.ModelSelections[kind] = model
				mu.Unlock()
			default:
				return fmt.Errorf("%w: unsupported content kind %q", domain.ErrValidation, kind)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (o *Orchestrator) generateText(ctx context.Context, kind domain.ContentKind, text, override string) (string, string, error) {
	rec := o.recommend(ctx, kind, text, override)
	client := o.textClients[rec.Primary.Provider]
	if client == nil || !client.HasCredentials() {
		client = o.defaultTextClient()
	}
	if client == nil || !client.HasCredentials() {
		return "", "", fmt.Errorf("%w: no text provider credentials configured", domain.ErrProviderUnavailable)
	}

	system := blogSystemPrompt
	user := "Transform this founder update into a blog post: " + text
	if kind == domain.KindLinkedIn {
		system = linkedinSystemPrompt
		user = "Transform this founder update into a LinkedIn post: " + text
	}
	chatReq := chat.Request{System: system, User: user, Temperature: 0.7}

	started := time.Now()
	out, err := client.Complete(ctx, chatReq)
	metrics.ObserveProviderLatency(string(rec.Primary.Provider), time.Since(started))
	model := client.Model()
	if err != nil {
		// One retry on the default text provider before giving up.
		fallback := o.defaultTextClient()
		if fallback == nil || fallback == client || !fallback.HasCredentials() {
			return "", "", fmt.Errorf("%w: %s generation: %v", domain.ErrProviderCall, kind, err)
		}
		o.warn(err, "generate: retrying on default text provider")
		out, err = fallback.Complete(ctx, chatReq)
		if err != nil {
			return "", "", fmt.Errorf("%w: %s generation: %v", domain.ErrProviderCall, kind, err)
		}
		model = fallback.Model()
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", "", fmt.Errorf("%w: %s generation: empty completion", domain.ErrProviderCall, kind)
	}
	return out, model, nil
}

func (o *Orchestrator) generateImage(ctx context.Context, text, override string) (string, string, error) {
	if o.imageClient == nil || !o.imageClient.HasCredentials() {
		return "", "", fmt.Errorf("%w: no image provider credentials configured", domain.ErrProviderUnavailable)
	}
	rec := o.recommend(ctx, domain.KindImage, text, override)
	provider := rec.Primary.Provider
	model := rec.Primary.Model
	if provider != catalog.ProviderGemini {
		// Only the gemini backend is wired for image dispatch; picks for
		// other image providers fall back to its configured model.
		provider = catalog.ProviderGemini
		model = o.imageClient.Model()
	}
	prompt := fmt.Sprintf("Create a professional infographic image that visualizes the key points from this founder update: %s. Use modern design, clean typography, and startup-appropriate visuals.", text)

	started := time.Now()
	asset, err := o.imageClient.GenerateImage(ctx, gemini.ImageRequest{
		Prompt:    prompt,
		Model:     model,
		RequestID: infra.RequestIDFrom(ctx),
	})
	metrics.ObserveProviderLatency(string(provider), time.Since(started))
	if err != nil {
		return "", "", fmt.Errorf("%w: image generation: %v", domain.ErrProviderCall, err)
	}
	url, err := o.store.SaveBlob(ctx, "infographic", extFromMime(asset.Format, "png"), asset.Data)
	if err != nil {
		return "", "", fmt.Errorf("image generation: persist asset: %w", err)
	}
	return url, model, nil
}

// recommend resolves the capability for one kind: a validated override wins
// outright, otherwise the update is classified and selection runs.
func (o *Orchestrator) recommend(ctx context.Context, kind domain.ContentKind, text, override string) selector.Recommendation {
	if override != "" {
		if c, ok := o.registry.Lookup(override); ok {
			return selector.Recommendation{Primary: c, Reasoning: "caller override", Confidence: 1}
		}
	}
	task := o.classify(ctx, kind, text)
	return o.selector.SelectBestModel(ctx, task)
}

// classify runs the analyzer over a kind-specific framing of the update and
// pins the task type so selection stays within compatible providers.
func (o *Orchestrator) classify(ctx context.Context, kind domain.ContentKind, text string) domain.TaskDescriptor {
	extra := map[string]string{"target_format": string(kind)}
	if locale := infra.LocaleFrom(ctx); locale != "" {
		extra["audience_locale"] = locale
	}
	task, err := o.analyzer.Analyze(ctx, classificationPrompt(kind, text), extra)
	if err != nil {
		task = domain.DefaultTaskDescriptor()
	}
	task.Type = taskTypeFor(kind)
	return task
}

func classificationPrompt(kind domain.ContentKind, text string) string {
	switch kind {
	case domain.KindBlog:
		return "Write a professional blog post based on this founder update: " + text
	case domain.KindLinkedIn:
		return "Write a casual LinkedIn post based on this founder update: " + text
	case domain.KindImage:
		return "Create an infographic image visualizing this founder update: " + text
	case domain.KindVideo:
		return "Create a short video presenting this founder update: " + text
	default:
		return text
	}
}

func taskTypeFor(kind domain.ContentKind) domain.TaskType {
	switch kind {
	case domain.KindImage:
		return domain.TaskImageGeneration
	case domain.KindVideo:
		return domain.TaskVideoGeneration
	default:
		return domain.TaskTextGeneration
	}
}

func dedupeKinds(kinds []domain.ContentKind) []domain.ContentKind {
	seen := make(map[domain.ContentKind]struct{}, len(kinds))
	var out []domain.ContentKind
	for _, k := range kinds {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func extFromMime(mime, fallback string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	}
	if idx := strings.LastIndex(mime, "/"); idx >= 0 && idx+1 < len(mime) {
		return mime[idx+1:]
	}
	return fallback
}
