// Package handlers carries the HTTP surface. Handlers validate and decode,
// delegate to the content service, and translate domain errors into status
// codes; no generation logic lives here.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/orchestrator"
)

// ContentService is the application surface the handlers delegate to.
// *orchestrator.Orchestrator satisfies it; tests substitute doubles.
type ContentService interface {
	Analyze(ctx context.Context, updateText string) (domain.ContentSuggestion, error)
	Generate(ctx context.Context, req orchestrator.GenerateRequest) (*domain.ContentBundle, error)
	ListModels() orchestrator.ModelCatalog
	Recommend(ctx context.Context, description string) (*orchestrator.TaskRecommendations, error)
}

type App struct {
	Service ContentService
	Logger  *infra.Logger
}

func NewApp(service ContentService, logger *infra.Logger) *App {
	return &App{Service: service, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}

// fail maps a domain error onto the wire. Unknown errors are logged and
// reported as opaque internals.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		a.error(w, http.StatusServiceUnavailable, "provider_unavailable", err.Error())
	case errors.Is(err, domain.ErrProviderCall), errors.Is(err, domain.ErrPollingTimeout):
		a.error(w, http.StatusBadGateway, "provider_error", err.Error())
	default:
		if a.Logger != nil {
			a.Logger.Error().Err(err).Str("request_id", infra.RequestIDFrom(r.Context())).Msg("handler: unexpected error")
		}
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
