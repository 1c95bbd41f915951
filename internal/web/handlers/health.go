package handlers

import (
	"net/http"
)

// HealthHandler reports the kiosk's own status and the verifier's.
type HealthHandler struct {
	gateway Gateway
}

func NewHealthHandler(gw Gateway) *HealthHandler {
	return &HealthHandler{gateway: gw}
}

// Check handles the health check endpoint. The kiosk is up even when the
// verifier is not, so this always answers 200.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}

	health, err := h.gateway.Health(r.Context())
	if err != nil {
		resp["verifier"] = map[string]string{"status": "unreachable", "error": err.Error()}
	} else {
		resp["verifier"] = health
	}
	respondJSON(w, http.StatusOK, resp)
}
