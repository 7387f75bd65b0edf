package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
	"server/internal/storage"
)

// Options carries everything the router needs beyond the handlers.
type Options struct {
	App            *handlers.App
	Logger         zerolog.Logger
	AllowedOrigins []string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	UploadsDir     string
}

func NewRouter(opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Logger(opts.Logger),
		middleware.Locale(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", opts.App.Analyze)
		r.Post("/generate", opts.App.Generate)
		r.Get("/models", opts.App.Models)
		r.Post("/recommend", opts.App.Recommend)
		r.Get("/health", opts.App.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Generated assets are served straight from the content directory.
	if opts.UploadsDir != "" {
		fs := stdhttp.StripPrefix(storage.PublicPrefix+"/", stdhttp.FileServer(stdhttp.Dir(opts.UploadsDir)))
		r.Get(storage.PublicPrefix+"/*", fs.ServeHTTP)
	}

	return r
}
