package handlers

import (
	"encoding/json"
	"net/http"
)

type analyzeRequest struct {
	UpdateText string `json:"update_text"`
}

// Analyze suggests whether an image or a video best represents the update.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	suggestion, err := a.Service.Analyze(r.Context(), req.UpdateText)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, suggestion)
}

type recommendRequest struct {
	TaskDescription string `json:"task_description"`
}

// Recommend classifies a free-text task description and returns ranked model
// options for it.
func (a *App) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	recs, err := a.Service.Recommend(r.Context(), req.TaskDescription)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, recs)
}
