package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// Gateway is the part of the verifier client the kiosk API proxies.
type Gateway interface {
	Health(ctx context.Context) (*gateway.Health, error)
	Overview(ctx context.Context) (*gateway.Overview, error)
	ListEmployees(ctx context.Context) ([]gateway.Employee, error)
	ListAttendances(ctx context.Context, filter gateway.AttendanceFilter) ([]gateway.Attendance, error)
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type workflowErrorResponse struct {
	Error  string               `json:"error"`
	Kind   string               `json:"kind,omitempty"`
	Field  string               `json:"field,omitempty"`
	Screen kiosk.ScreenSnapshot `json:"screen"`
}

// respondWorkflowError maps a screen operation error to a status code.
// Rejections are a normal outcome and are answered with 200 and the screen.
func respondWorkflowError(w http.ResponseWriter, err error, screen kiosk.ScreenSnapshot) {
	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		status := http.StatusInternalServerError
		switch wfErr.Kind {
		case workflow.KindValidation:
			status = http.StatusBadRequest
		case workflow.KindDevice:
			status = http.StatusConflict
		case workflow.KindTransport:
			status = http.StatusBadGateway
		case workflow.KindRejection:
			respondJSON(w, http.StatusOK, screen)
			return
		}
		respondJSON(w, status, workflowErrorResponse{
			Error:  wfErr.Message,
			Kind:   wfErr.Kind.String(),
			Field:  wfErr.Field,
			Screen: screen,
		})
		return
	}

	switch {
	case errors.Is(err, workflow.ErrSubmitInProgress),
		errors.Is(err, workflow.ErrClosed),
		errors.Is(err, camera.ErrNotReady),
		errors.Is(err, camera.ErrNothingToRetake),
		errors.Is(err, camera.ErrClosed),
		errors.Is(err, kiosk.ErrNoActiveWorkflow):
		respondJSON(w, http.StatusConflict, workflowErrorResponse{Error: err.Error(), Screen: screen})
	case errors.Is(err, kiosk.ErrUnknownScreen):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("kiosk_request_failed", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondGatewayError reports a failed verifier call. The verifier's own
// message is passed through when it sent one.
func respondGatewayError(w http.ResponseWriter, err error, fallback string) {
	msg := gateway.RemoteMessage(err)
	if msg == "" {
		msg = fallback
	}
	slog.Warn("gateway_call_failed", "error", sanitizeForLog(err.Error()))
	respondError(w, http.StatusBadGateway, msg)
}
