// Package runway implements the cinematic video client. Generation is
// synchronous from the caller's perspective: one call yields an asset URL
// and the asset bytes are downloaded before returning.
package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingAPIKey indicates the client was configured without credentials.
var ErrMissingAPIKey = errors.New("runway: api key is required")

// Options configures the Runway client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the Runway generation API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// VideoRequest captures the inputs for one cinematic video.
type VideoRequest struct {
	Prompt    string
	RequestID string
}

// VideoAsset is the normalized result: downloaded bytes plus metadata.
type VideoAsset struct {
	Data   []byte
	Format string
	URL    string
}

type generateRequest struct {
	Model      string `json:"model"`
	PromptText string `json:"promptText"`
	Duration   int    `json:"duration,omitempty"`
}

type generateResponse struct {
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.dev.runwayml.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "runway-gen-3"
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
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// GenerateVideo invokes the API once, downloads the produced asset and
// returns its bytes.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) (*VideoAsset, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("runway: prompt is required")
	}
	payload := generateRequest{
		Model:      c.model,
		PromptText: prompt,
		Duration:   10,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("runway: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text_to_video", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("runway: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("runway: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("runway: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail generateResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != "" {
			return nil, fmt.Errorf("runway: status %d: %s", resp.StatusCode, detail.Error)
		}
		return nil, fmt.Errorf("runway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("runway: decode response: %w", err)
	}
	if len(decoded.Output) == 0 || strings.TrimSpace(decoded.Output[0]) == "" {
		return nil, errors.New("runway: empty asset url")
	}
	assetURL := decoded.Output[0]
	data, format, err := c.download(ctx, assetURL)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("request_id", req.RequestID).
		Int("bytes", len(data)).
		Msg("runway: generated video asset")
	return &VideoAsset{Data: data, Format: format, URL: assetURL}, nil
}

func (c *Client) download(ctx context.Context, assetURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("runway: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("runway: download asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("runway: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("runway: read asset: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "video/mp4"
	}
	return data, format, nil
}
