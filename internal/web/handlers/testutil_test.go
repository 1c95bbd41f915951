package handlers

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// stubGateway serves canned verifier answers.
type stubGateway struct {
	mu          sync.Mutex
	health      *gateway.Health
	overview    *gateway.Overview
	employees   []gateway.Employee
	attendances []gateway.Attendance
	verify      *gateway.VerificationResult
	err         error
	lastFilter  gateway.AttendanceFilter
	verifyCalls int
}

func (g *stubGateway) Health(ctx context.Context) (*gateway.Health, error) {
	return g.health, g.err
}

func (g *stubGateway) Overview(ctx context.Context) (*gateway.Overview, error) {
	return g.overview, g.err
}

func (g *stubGateway) ListEmployees(ctx context.Context) ([]gateway.Employee, error) {
	return g.employees, g.err
}

func (g *stubGateway) ListAttendances(ctx context.Context, filter gateway.AttendanceFilter) ([]gateway.Attendance, error) {
	g.mu.Lock()
	g.lastFilter = filter
	g.mu.Unlock()
	return g.attendances, g.err
}

func (g *stubGateway) Enroll(ctx context.Context, req gateway.EnrollRequest) (*gateway.EnrollmentAck, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.EnrollmentAck{Employee: gateway.Employee{ID: 1, Name: req.Name}}, nil
}

func (g *stubGateway) Verify(ctx context.Context, employeeID string, image []byte) (*gateway.VerificationResult, error) {
	g.mu.Lock()
	g.verifyCalls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.verify, nil
}

type stillDevice struct {
	openErr error
}

func (d stillDevice) Open(ctx context.Context, c camera.Constraints) (camera.Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return stillStream{}, nil
}

type stillStream struct{}

func (stillStream) ReadFrame(ctx context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 320, 240)), nil
}

func (stillStream) Close() error { return nil }

func testMessages(t *testing.T) *config.Messages {
	t.Helper()
	msgs, err := config.LoadMessages("en")
	if err != nil {
		t.Fatalf("LoadMessages failed: %v", err)
	}
	return msgs
}

func newTestNavigator(t *testing.T, gw *stubGateway, dev camera.Device) *kiosk.Navigator {
	t.Helper()
	nav := kiosk.NewNavigator(gw, dev, camera.DefaultConstraints(), testMessages(t), kiosk.WithClock(clockwork.NewFakeClock()))
	t.Cleanup(func() { nav.Close() })
	return nav
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%v'", expectedMessage, result["error"])
	}
}

func screenSnapshotForTest() kiosk.ScreenSnapshot {
	return kiosk.ScreenSnapshot{Visit: "test", Screen: kiosk.ScreenLanding}
}
