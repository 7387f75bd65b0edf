package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/catalog"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/orchestrator"
	"server/internal/providers/chat"
	"server/internal/providers/gemini"
	"server/internal/providers/heygen"
	"server/internal/providers/runway"
	"server/internal/selector"
	"server/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// Provider clients. Every client is constructed regardless of
	// credentials; a missing key just marks the provider unavailable.
	xaiClient, err := chat.NewClient(chat.Options{
		APIKey:  cfg.XAIAPIKey,
		BaseURL: cfg.XAIBaseURL,
		Model:   cfg.XAIModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build xai client")
	}
	openaiClient, err := chat.NewClient(chat.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build openai client")
	}
	geminiClient, err := gemini.NewClient(gemini.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}
	heygenClient, err := heygen.NewClient(heygen.Options{
		APIKey:   cfg.HeyGenAPIKey,
		BaseURL:  cfg.HeyGenBaseURL,
		AvatarID: cfg.HeyGenAvatarID,
		VoiceID:  cfg.HeyGenVoiceID,
		Logger:   &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build heygen client")
	}
	runwayClient, err := runway.NewClient(runway.Options{
		APIKey:  cfg.RunwayAPIKey,
		BaseURL: cfg.RunwayBaseURL,
		Model:   cfg.RunwayModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build runway client")
	}

	registry := catalog.DefaultRegistry()
	creds := catalog.Credentials{
		catalog.ProviderXAI:    xaiClient.HasCredentials(),
		catalog.ProviderOpenAI: openaiClient.HasCredentials(),
		catalog.ProviderGemini: geminiClient.HasCredentials(),
		catalog.ProviderHeyGen: heygenClient.HasCredentials(),
		catalog.ProviderRunway: runwayClient.HasCredentials(),
	}

	// The reasoning backend prefers xAI, then OpenAI; with neither key the
	// selector and analyzer run on deterministic fallbacks.
	var reasoner selector.Reasoner
	if xaiClient.HasCredentials() {
		reasoner = xaiClient
	} else if openaiClient.HasCredentials() {
		reasoner = openaiClient
	}
	analyzer := selector.NewAnalyzer(reasoner, &logger)
	picker := selector.NewSelector(registry, reasoner, &logger)

	orch := orchestrator.New(orchestrator.Options{
		Registry:    registry,
		Credentials: creds,
		Analyzer:    analyzer,
		Selector:    picker,
		TextClients: map[catalog.Provider]orchestrator.TextCompleter{
			catalog.ProviderXAI:    xaiClient,
			catalog.ProviderOpenAI: openaiClient,
		},
		ImageClient:     geminiClient,
		AvatarClient:    heygenClient,
		CinematicClient: runwayClient,
		Store:           store,
		Logger:          &logger,
		VideoMode:       orchestrator.VideoMode(cfg.VideoMode),
		PollInterval:    cfg.VideoPollInterval,
		PollMaxAttempts: cfg.VideoPollMaxAttempts,
	})

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
		if closer, ok := resolver.(io.Closer); ok {
			defer closer.Close()
		}
	}

	app := handlers.NewApp(orch, &logger)
	router := httpapi.NewRouter(httpapi.Options{
		App:            app,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
		UploadsDir:     store.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
