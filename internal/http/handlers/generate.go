package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/orchestrator"
)

type generateRequest struct {
	UpdateText string   `json:"update_text"`
	Kinds      []string `json:"kinds"`
	// ContentChoice is the simplified form: "image" or "video" alongside
	// the two text kinds that are always produced.
	ContentChoice string `json:"content_choice"`
	SelectedModel string `json:"selected_model"`
}

// Generate produces the requested content kinds for one founder update.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	kinds, err := resolveKinds(req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	bundle, err := a.Service.Generate(r.Context(), orchestrator.GenerateRequest{
		UpdateText:    req.UpdateText,
		Kinds:         kinds,
		SelectedModel: req.SelectedModel,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, bundle)
}

// resolveKinds accepts either an explicit kind list or the content_choice
// shorthand, which always bundles both text kinds with the chosen visual.
func resolveKinds(req generateRequest) ([]domain.ContentKind, error) {
	if len(req.Kinds) > 0 {
		out := make([]domain.ContentKind, 0, len(req.Kinds))
		for _, raw := range req.Kinds {
			kind, err := domain.ParseContentKind(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, kind)
		}
		return out, nil
	}
	choice := strings.TrimSpace(req.ContentChoice)
	if choice == "" {
		return nil, nil
	}
	visual, err := domain.ParseContentKind(choice)
	if err != nil {
		return nil, err
	}
	return []domain.ContentKind{domain.KindBlog, domain.KindLinkedIn, visual}, nil
}
