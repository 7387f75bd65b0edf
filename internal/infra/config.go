package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	StoragePath string
	GeoIPDBPath string

	DefaultLocale string

	XAIAPIKey  string
	XAIModel   string
	XAIBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	HeyGenAPIKey   string
	HeyGenBaseURL  string
	HeyGenAvatarID string
	HeyGenVoiceID  string

	RunwayAPIKey  string
	RunwayModel   string
	RunwayBaseURL string

	VideoMode            string
	VideoPollInterval    time.Duration
	VideoPollMaxAttempts int

	AllowedOrigins []string

	HTTPReadTimeout       time.Duration
	HTTPReadHeaderTimeout time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. No provider key is required: a missing key just
// marks that provider unavailable.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		StoragePath: getEnv("STORAGE_PATH", "uploads"),
		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "en-US"),

		XAIAPIKey:  os.Getenv("XAI_API_KEY"),
		XAIModel:   getEnv("XAI_MODEL", "grok-2-1212"),
		XAIBaseURL: getEnv("XAI_BASE_URL", "https://api.x.ai/v1"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-preview-image-generation"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		HeyGenAPIKey:   os.Getenv("HEYGEN_API_KEY"),
		HeyGenBaseURL:  getEnv("HEYGEN_BASE_URL", "https://api.heygen.com"),
		HeyGenAvatarID: getEnv("HEYGEN_AVATAR_ID", "default"),
		HeyGenVoiceID:  getEnv("HEYGEN_VOICE_ID", "default"),

		RunwayAPIKey:  os.Getenv("RUNWAY_API_KEY"),
		RunwayModel:   getEnv("RUNWAY_MODEL", "runway-gen-3"),
		RunwayBaseURL: getEnv("RUNWAY_BASE_URL", "https://api.dev.runwayml.com/v1"),

		VideoMode:            getEnv("VIDEO_MODE", "wait"),
		VideoPollInterval:    time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)),
		VideoPollMaxAttempts: getEnvInt("VIDEO_POLL_MAX_ATTEMPTS", 60),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPReadHeaderTimeout: time.Second * time.Duration(getEnvInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.VideoMode != "wait" && cfg.VideoMode != "async" {
		return nil, fmt.Errorf("VIDEO_MODE must be wait or async, got %q", cfg.VideoMode)
	}
	if cfg.VideoPollInterval <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_INTERVAL_SECONDS must be positive")
	}
	if cfg.VideoPollMaxAttempts <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
