package orchestrator

import (
	"context"
	"fmt"
	"time"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/metrics"
	"server/internal/providers/heygen"
	"server/internal/providers/runway"
)

const (
	// PlaceholderVideoURL is returned whenever no video provider could
	// produce a real asset.
	PlaceholderVideoURL = "/placeholder-video.mp4"
	// ProcessingVideoURL is returned in async mode while the submitted job
	// is still rendering.
	ProcessingVideoURL = "/placeholder-video-processing.mp4"
)

// generateVideo walks the degradation chain and never fails: every error
// collapses into a placeholder reference with an annotated model label, so a
// video request cannot abort the surrounding generate call.
func (o *Orchestrator) generateVideo(ctx context.Context, text, override string) (string, string) {
	rec := o.recommend(ctx, domain.KindVideo, text, override)
	label := rec.Primary.Model

	avatarOK := o.avatarClient != nil && o.avatarClient.HasCredentials()
	cinematicOK := o.cinematicClient != nil && o.cinematicClient.HasCredentials()
	if !avatarOK && !cinematicOK {
		o.info("video: no provider credentials, serving placeholder")
		metrics.ObserveGeneration(string(domain.KindVideo), metrics.OutcomeDegraded)
		return PlaceholderVideoURL, label + " (placeholder)"
	}

	// The recommended provider goes first when it is credentialed; the
	// avatar fast path otherwise.
	preferCinematic := rec.Primary.Provider == catalog.ProviderRunway && cinematicOK
	if avatarOK && !preferCinematic {
		if url, model, done := o.avatarVideo(ctx, text); done {
			return url, model
		}
		if cinematicOK {
			if url, model, done := o.cinematicVideo(ctx, text); done {
				return url, model
			}
		}
	} else {
		if url, model, done := o.cinematicVideo(ctx, text); done {
			return url, model
		}
		if avatarOK {
			if url, model, done := o.avatarVideo(ctx, text); done {
				return url, model
			}
		}
	}
	metrics.ObserveGeneration(string(domain.KindVideo), metrics.OutcomeDegraded)
	return PlaceholderVideoURL, label + " (placeholder)"
}

// avatarVideo submits one job and either waits for it or detaches a watcher,
// depending on the configured mode. A submit failure reports done=false so
// the caller can try the next tier; a polling failure after a successful
// submit is terminal for the chain and degrades to a placeholder.
func (o *Orchestrator) avatarVideo(ctx context.Context, text string) (string, string, bool) {
	started := time.Now()
	job, err := o.avatarClient.Submit(ctx, heygen.VideoRequest{
		Script:    videoScript(text),
		RequestID: infra.RequestIDFrom(ctx),
	})
	metrics.ObserveProviderLatency(string(catalog.ProviderHeyGen), time.Since(started))
	if err != nil {
		o.warn(err, "video: avatar submit failed")
		return "", "", false
	}
	model := catalog.DefaultAvatarModel

	if o.videoMode == VideoModeAsync {
		metrics.VideoJobStarted()
		go o.watchVideoJob(job)
		metrics.ObserveGeneration(string(domain.KindVideo), metrics.OutcomeDegraded)
		return ProcessingVideoURL, model + " (processing)", true
	}

	status, err := o.awaitVideoJob(ctx, job)
	if err != nil {
		o.warn(err, "video: avatar job did not complete")
		metrics.ObserveGeneration(string(domain.KindVideo), metrics.OutcomeDegraded)
		return PlaceholderVideoURL, model + " (placeholder)", true
	}
	metrics.ObserveGeneration(string(domain.KindVideo), metrics.OutcomeOK)
	return status.VideoURL, model, true
}

// awaitVideoJob polls until a terminal state or until the attempt budget is
// spent.
func (o *Orchestrator) awaitVideoJob(ctx context.Context, job *heygen.Job) (heygen.JobStatus, error) {
	for attempt := 0; attempt < o.pollMaxAttempts; attempt++ {
		status, err := o.avatarClient.Poll(ctx, job)
		if err != nil {
			return heygen.JobStatus{}, fmt.Errorf("%w: poll job %s: %v", domain.ErrProviderCall, job.ID, err)
		}
		switch status.State {
		case heygen.StateCompleted:
			if status.VideoURL == "" {
				return heygen.JobStatus{}, fmt.Errorf("%w: job %s completed without a video url", domain.ErrProviderCall, job.ID)
			}
			return status, nil
		case heygen.StateFailed:
			return heygen.JobStatus{}, fmt.Errorf("%w: job %s failed: %s", domain.ErrProviderCall, job.ID, status.Detail)
		}
		select {
		case <-ctx.Done():
			return heygen.JobStatus{}, ctx.Err()
		case <-time.After(o.pollInterval):
		}
	}
	return heygen.JobStatus{}, fmt.Errorf("%w: job %s still processing after %d attempts", domain.ErrPollingTimeout, job.ID, o.pollMaxAttempts)
}

// watchVideoJob follows a detached job to completion. It runs outside the
// request context on purpose; the outcome is only observable through logs
// and metrics.
func (o *Orchestrator) watchVideoJob(job *heygen.Job) {
	defer metrics.VideoJobFinished()
	budget := o.pollInterval * time.Duration(o.pollMaxAttempts+1)
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	status, err := o.awaitVideoJob(ctx, job)
	if err != nil {
		o.warn(err, "video: detached avatar job did not complete")
		return
	}
	if o.logger != nil {
		o.logger.Info().
			Str("video_id", job.ID).
			Str("video_url", status.VideoURL).
			Msg("video: detached avatar job completed")
	}
}

// cinematicVideo generates synchronously and persists the downloaded asset.
// Any failure reports done=false so the caller can degrade.
func (o *Orchestrator) cinematicVideo(ctx context.Context, text string) (string, string, bool) {
	started := time.Now()
	asset, err := o.cinematicClient.GenerateVideo(ctx, runway.VideoRequest{
		Prompt:    videoPrompt(text),
		RequestID: infra.RequestIDFrom(ctx),
	})
	metrics.ObserveProviderLatency(string(catalog.ProviderRunway), time.Since(started))
	if err != nil {
		o.warn(err, "video: cinematic generation failed")
		return "", "", false
	}
	url, err := o.store.SaveBlob(ctx, "explainer", extFromMime(asset.Format, "mp4"), asset.Data)
	if err != nil {
		o.warn(err, "video: persist cinematic asset failed")
		return "", "", false
	}
	metrics.ObserveGeneration(string(domain.KindVideo), metrics.OutcomeOK)
	return url, o.cinematicClient.Model(), true
}

// videoScript trims the update so it fits an avatar narration slot.
func videoScript(text string) string {
	const maxScript = 1500
	if len(text) <= maxScript {
		return text
	}
	return text[:maxScript]
}

func videoPrompt(text string) string {
	return "Professional explainer video presenting this startup founder update: " + text
}
