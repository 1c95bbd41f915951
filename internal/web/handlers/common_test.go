package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/workflow"
)

func TestRespondJSON_SetsContentType(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusOK, map[string]string{"status": "ok"})

	contentType := recorder.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", contentType)
	}
}

func TestRespondJSON_NilData(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusNoContent, nil)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got '%s'", recorder.Body.String())
	}
}

func TestRespondError_ContainsErrorKey(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusBadRequest, "something went wrong")

	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if result["error"] != "something went wrong" {
		t.Errorf("expected error 'something went wrong', got '%s'", result["error"])
	}
}

func TestRespondWorkflowError_Kinds(t *testing.T) {
	tests := []struct {
		kind workflow.Kind
		want int
	}{
		{workflow.KindValidation, http.StatusBadRequest},
		{workflow.KindDevice, http.StatusConflict},
		{workflow.KindTransport, http.StatusBadGateway},
		{workflow.KindRejection, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWorkflowError(rec, &workflow.Error{Kind: tt.kind, Message: "msg"}, screenSnapshotForTest())
			assertStatusCode(t, rec, tt.want)
		})
	}
}

func TestRespondWorkflowError_SubmitInProgress(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWorkflowError(rec, workflow.ErrSubmitInProgress, screenSnapshotForTest())

	assertStatusCode(t, rec, http.StatusConflict)
	assertJSONError(t, rec, workflow.ErrSubmitInProgress.Error())
}

func TestSanitizeForLog(t *testing.T) {
	if got := sanitizeForLog("line1\nline2\r"); got != "line1line2" {
		t.Errorf("sanitizeForLog() = %q", got)
	}
}
