package api

import "net/http"

// Health is the liveness payload.
type Health struct {
	Healthy bool `json:"healthy"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Healthy: true})
}
