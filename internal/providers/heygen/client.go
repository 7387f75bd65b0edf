// Package heygen implements the avatar-video client. Generation is
// asynchronous: a submit call yields a job handle, and callers poll the
// handle until the provider reports a terminal state. The wait-vs-detach
// decision belongs to the caller, not to this client.
package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingAPIKey indicates the client was configured without credentials.
var ErrMissingAPIKey = errors.New("heygen: api key is required")

// State is the closed job state set every provider-specific status string is
// mapped into.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Job is the handle for one submitted avatar-video generation.
type Job struct {
	ID string
}

// JobStatus is one observation of a job's progress.
type JobStatus struct {
	State    State
	VideoURL string
	Detail   string
}

// Options configures the HeyGen client.
type Options struct {
	APIKey         string
	BaseURL        string
	AvatarID       string
	VoiceID        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the HeyGen video API.
type Client struct {
	apiKey     string
	baseURL    string
	avatarID   string
	voiceID    string
	httpClient *http.Client
	logger     *infra.Logger
}

// VideoRequest captures the inputs for one avatar video.
type VideoRequest struct {
	Script    string
	RequestID string
}

type generateRequest struct {
	VideoInputs []videoInput `json:"video_inputs"`
	Dimension   dimension    `json:"dimension"`
}

type videoInput struct {
	Character character `json:"character"`
	Voice     voice     `json:"voice"`
}

type character struct {
	Type     string `json:"type"`
	AvatarID string `json:"avatar_id"`
}

type voice struct {
	Type      string `json:"type"`
	VoiceID   string `json:"voice_id"`
	InputText string `json:"input_text"`
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generateResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type statusResponse struct {
	Data struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
		Error    struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.heygen.com"
	}
	avatarID := strings.TrimSpace(opts.AvatarID)
	if avatarID == "" {
		avatarID = "default"
	}
	voiceID := strings.TrimSpace(opts.VoiceID)
	if voiceID == "" {
		voiceID = "default"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		avatarID:   avatarID,
		voiceID:    voiceID,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Submit starts one avatar-video generation and returns its job handle.
func (c *Client) Submit(ctx context.Context, req VideoRequest) (*Job, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	script := strings.TrimSpace(req.Script)
	if script == "" {
		return nil, errors.New("heygen: script is required")
	}
	payload := generateRequest{
		VideoInputs: []videoInput{{
			Character: character{Type: "avatar", AvatarID: c.avatarID},
			Voice:     voice{Type: "text", VoiceID: c.voiceID, InputText: script},
		}},
		Dimension: dimension{Width: 1280, Height: 720},
	}
	var decoded generateResponse
	if err := c.post(ctx, "/v2/video/generate", payload, &decoded); err != nil {
		return nil, err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("heygen: %s (%s)", decoded.Error.Message, decoded.Error.Code)
	}
	if decoded.Data.VideoID == "" {
		return nil, errors.New("heygen: empty video id")
	}
	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("video_id", decoded.Data.VideoID).
		Msg("heygen: submitted video job")
	return &Job{ID: decoded.Data.VideoID}, nil
}

// Poll observes the job once and maps the provider status into the closed
// state set.
func (c *Client) Poll(ctx context.Context, job *Job) (JobStatus, error) {
	if !c.HasCredentials() {
		return JobStatus{}, ErrMissingAPIKey
	}
	if job == nil || job.ID == "" {
		return JobStatus{}, errors.New("heygen: job id is required")
	}
	endpoint := fmt.Sprintf("%s/v1/video_status.get?video_id=%s", c.baseURL, url.QueryEscape(job.ID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return JobStatus{}, fmt.Errorf("heygen: build request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return JobStatus{}, fmt.Errorf("heygen: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return JobStatus{}, fmt.Errorf("heygen: status %d", resp.StatusCode)
	}
	var decoded statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return JobStatus{}, fmt.Errorf("heygen: decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return JobStatus{}, fmt.Errorf("heygen: %s (%s)", decoded.Error.Message, decoded.Error.Code)
	}
	status := JobStatus{
		State:    mapState(decoded.Data.Status),
		VideoURL: decoded.Data.VideoURL,
		Detail:   decoded.Data.Error.Message,
	}
	c.logger.Debug().
		Str("video_id", job.ID).
		Str("state", string(status.State)).
		Msg("heygen: polled video job")
	return status, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("heygen: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("heygen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("heygen: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("heygen: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail generateResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != nil && detail.Error.Message != "" {
			return fmt.Errorf("heygen: status %d: %s", resp.StatusCode, detail.Error.Message)
		}
		return fmt.Errorf("heygen: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("heygen: decode response: %w", err)
	}
	return nil
}

func mapState(raw string) State {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "success":
		return StateCompleted
	case "failed", "error":
		return StateFailed
	case "processing", "rendering":
		return StateProcessing
	default:
		return StatePending
	}
}
