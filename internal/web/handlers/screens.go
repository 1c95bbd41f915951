package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

// ScreenHandler drives the kiosk screens.
type ScreenHandler struct {
	nav *kiosk.Navigator
}

func NewScreenHandler(nav *kiosk.Navigator) *ScreenHandler {
	return &ScreenHandler{nav: nav}
}

// Get returns the current screen.
func (h *ScreenHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.nav.Snapshot())
}

// Navigate switches to the screen named in the URL.
func (h *ScreenHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	kind, err := kiosk.ParseScreenKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	snap, err := h.nav.Navigate(r.Context(), kind)
	if err != nil {
		respondWorkflowError(w, err, snap)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// UpdateFields applies {"field": "value"} edits to the active form.
func (h *ScreenHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	var values workflow.Fields
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	screen, err := h.nav.Active()
	if err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	if err := screen.SetFields(values); err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, h.nav.Snapshot())
}

// Capture takes a photo on the active screen.
func (h *ScreenHandler) Capture(w http.ResponseWriter, r *http.Request) {
	screen, err := h.nav.Active()
	if err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	if _, err := screen.Capture(r.Context()); err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, h.nav.Snapshot())
}

// Retake discards the photo on the active screen.
func (h *ScreenHandler) Retake(w http.ResponseWriter, r *http.Request) {
	screen, err := h.nav.Active()
	if err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	if err := screen.Retake(); err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, h.nav.Snapshot())
}

// Submit sends the active form to the verifier and waits for the answer.
func (h *ScreenHandler) Submit(w http.ResponseWriter, r *http.Request) {
	screen, err := h.nav.Active()
	if err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	if err := screen.Submit(r.Context()); err != nil {
		respondWorkflowError(w, err, h.nav.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, h.nav.Snapshot())
}

// Events streams screen changes over SSE.
func (h *ScreenHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamScreenEvents(w, r, h.nav)
}
