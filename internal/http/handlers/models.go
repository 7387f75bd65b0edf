package handlers

import (
	"net/http"
)

// Models returns the capability catalog and per-provider availability.
func (a *App) Models(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Service.ListModels())
}
