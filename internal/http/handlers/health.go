package handlers

import (
	"net/http"

	"server/internal/catalog"
)

type healthResponse struct {
	Status    string                    `json:"status"`
	Providers map[catalog.Provider]bool `json:"providers"`
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Providers: a.Service.ListModels().ProviderAvailability,
	})
}
