package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/orchestrator"
)

type stubService struct {
	analyze   func(context.Context, string) (domain.ContentSuggestion, error)
	generate  func(context.Context, orchestrator.GenerateRequest) (*domain.ContentBundle, error)
	models    func() orchestrator.ModelCatalog
	recommend func(context.Context, string) (*orchestrator.TaskRecommendations, error)
}

func (s *stubService) Analyze(ctx context.Context, updateText string) (domain.ContentSuggestion, error) {
	if s.analyze != nil {
		return s.analyze(ctx, updateText)
	}
	return domain.ContentSuggestion{}, errors.New("analyze not implemented")
}

func (s *stubService) Generate(ctx context.Context, req orchestrator.GenerateRequest) (*domain.ContentBundle, error) {
	if s.generate != nil {
		return s.generate(ctx, req)
	}
	return nil, errors.New("generate not implemented")
}

func (s *stubService) ListModels() orchestrator.ModelCatalog {
	if s.models != nil {
		return s.models()
	}
	return orchestrator.ModelCatalog{}
}

func (s *stubService) Recommend(ctx context.Context, description string) (*orchestrator.TaskRecommendations, error) {
	if s.recommend != nil {
		return s.recommend(ctx, description)
	}
	return nil, errors.New("recommend not implemented")
}

func TestGenerateExpandsContentChoice(t *testing.T) {
	var captured orchestrator.GenerateRequest
	app := NewApp(&stubService{generate: func(ctx context.Context, req orchestrator.GenerateRequest) (*domain.ContentBundle, error) {
		captured = req
		bundle := domain.NewContentBundle()
		bundle.BlogText = "blog"
		bundle.LinkedInText = "post"
		bundle.ImageURL = "/uploads/infographic_1.png"
		bundle.ModelSelections[domain.KindBlog] = "grok-2-1212"
		return bundle, nil
	}}, nil)

	body := `{"update_text":"we shipped","content_choice":"image"}`
	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.Generate(rr, req)

	require.Equal(t, 200, rr.Code)
	require.Equal(t, []domain.ContentKind{domain.KindBlog, domain.KindLinkedIn, domain.KindImage}, captured.Kinds)
	require.Equal(t, "we shipped", captured.UpdateText)

	var payload domain.ContentBundle
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Equal(t, "blog", payload.BlogText)
	require.Equal(t, "/uploads/infographic_1.png", payload.ImageURL)
}

func TestGenerateAcceptsExplicitKinds(t *testing.T) {
	var captured orchestrator.GenerateRequest
	app := NewApp(&stubService{generate: func(ctx context.Context, req orchestrator.GenerateRequest) (*domain.ContentBundle, error) {
		captured = req
		return domain.NewContentBundle(), nil
	}}, nil)

	body := `{"update_text":"we shipped","kinds":["video","blog"],"selected_model":"best"}`
	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.Generate(rr, req)

	require.Equal(t, 200, rr.Code)
	require.Equal(t, []domain.ContentKind{domain.KindVideo, domain.KindBlog}, captured.Kinds)
	require.Equal(t, "best", captured.SelectedModel)
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	app := NewApp(&stubService{}, nil)

	body := `{"update_text":"we shipped","kinds":["hologram"]}`
	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.Generate(rr, req)

	require.Equal(t, 400, rr.Code)
	var payload map[string]errorBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Equal(t, "bad_request", payload["error"].Code)
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	app := NewApp(&stubService{}, nil)

	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	app.Generate(rr, req)

	require.Equal(t, 400, rr.Code)
}

func TestGenerateMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: update text is required", domain.ErrValidation), 400},
		{fmt.Errorf("%w: no text provider credentials configured", domain.ErrProviderUnavailable), 503},
		{fmt.Errorf("%w: blog generation: boom", domain.ErrProviderCall), 502},
		{errors.New("disk on fire"), 500},
	}
	for _, tc := range cases {
		app := NewApp(&stubService{generate: func(ctx context.Context, req orchestrator.GenerateRequest) (*domain.ContentBundle, error) {
			return nil, tc.err
		}}, nil)
		body := `{"update_text":"x","kinds":["blog"]}`
		req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(body))
		rr := httptest.NewRecorder()
		app.Generate(rr, req)
		require.Equal(t, tc.code, rr.Code, "error %v", tc.err)
	}
}

func TestAnalyzeReturnsSuggestion(t *testing.T) {
	app := NewApp(&stubService{analyze: func(ctx context.Context, updateText string) (domain.ContentSuggestion, error) {
		require.Equal(t, "big milestone", updateText)
		return domain.ContentSuggestion{Suggestion: "image", Reasoning: "metrics are visual"}, nil
	}}, nil)

	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"update_text":"big milestone"}`))
	rr := httptest.NewRecorder()
	app.Analyze(rr, req)

	require.Equal(t, 200, rr.Code)
	var payload domain.ContentSuggestion
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Equal(t, "image", payload.Suggestion)
}

func TestModelsReturnsCatalog(t *testing.T) {
	app := NewApp(&stubService{models: func() orchestrator.ModelCatalog {
		return orchestrator.ModelCatalog{
			Capabilities:         catalog.DefaultCapabilities(),
			ProviderAvailability: map[catalog.Provider]bool{catalog.ProviderXAI: true},
		}
	}}, nil)

	req := httptest.NewRequest("GET", "/api/models", nil)
	rr := httptest.NewRecorder()
	app.Models(rr, req)

	require.Equal(t, 200, rr.Code)
	var payload orchestrator.ModelCatalog
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Len(t, payload.Capabilities, len(catalog.DefaultCapabilities()))
	require.True(t, payload.ProviderAvailability[catalog.ProviderXAI])
}

func TestRecommendReturnsRankedOptions(t *testing.T) {
	app := NewApp(&stubService{recommend: func(ctx context.Context, description string) (*orchestrator.TaskRecommendations, error) {
		return &orchestrator.TaskRecommendations{Task: domain.DefaultTaskDescriptor()}, nil
	}}, nil)

	req := httptest.NewRequest("POST", "/api/recommend", strings.NewReader(`{"task_description":"launch post"}`))
	rr := httptest.NewRecorder()
	app.Recommend(rr, req)

	require.Equal(t, 200, rr.Code)
}

func TestHealth(t *testing.T) {
	app := NewApp(&stubService{models: func() orchestrator.ModelCatalog {
		return orchestrator.ModelCatalog{
			ProviderAvailability: map[catalog.Provider]bool{
				catalog.ProviderXAI:    true,
				catalog.ProviderHeyGen: false,
			},
		}
	}}, nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	app.Health(rr, req)

	require.Equal(t, 200, rr.Code)
	var payload healthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Equal(t, "ok", payload.Status)
	require.True(t, payload.Providers[catalog.ProviderXAI])
	require.False(t, payload.Providers[catalog.ProviderHeyGen])
}
