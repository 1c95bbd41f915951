package web

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

type nopGateway struct{}

func (nopGateway) Health(ctx context.Context) (*gateway.Health, error) {
	return &gateway.Health{Status: "healthy"}, nil
}

func (nopGateway) Overview(ctx context.Context) (*gateway.Overview, error) {
	return &gateway.Overview{Recent: []gateway.Attendance{}}, nil
}

func (nopGateway) ListEmployees(ctx context.Context) ([]gateway.Employee, error) {
	return []gateway.Employee{}, nil
}

func (nopGateway) ListAttendances(ctx context.Context, filter gateway.AttendanceFilter) ([]gateway.Attendance, error) {
	return []gateway.Attendance{}, nil
}

func (nopGateway) Enroll(ctx context.Context, req gateway.EnrollRequest) (*gateway.EnrollmentAck, error) {
	return &gateway.EnrollmentAck{}, nil
}

func (nopGateway) Verify(ctx context.Context, employeeID string, image []byte) (*gateway.VerificationResult, error) {
	return &gateway.VerificationResult{Verification: true}, nil
}

type blankDevice struct{}

func (blankDevice) Open(ctx context.Context, c camera.Constraints) (camera.Stream, error) {
	return blankStream{}, nil
}

type blankStream struct{}

func (blankStream) ReadFrame(ctx context.Context) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 40, 30)), nil
}

func (blankStream) Close() error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("ATTENDANCE_LANG", "en")
	cfg := config.Load()
	nav := kiosk.NewNavigator(nopGateway{}, blankDevice{}, camera.DefaultConstraints(), cfg.Messages)
	t.Cleanup(func() { nav.Close() })
	return NewServer(cfg, nav, nopGateway{})
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/dashboard", http.StatusOK},
		{http.MethodGet, "/api/v1/employees", http.StatusOK},
		{http.MethodGet, "/api/v1/attendance?limit=5", http.StatusOK},
		{http.MethodGet, "/api/v1/screen", http.StatusOK},
		{http.MethodPost, "/api/v1/screen/enroll", http.StatusOK},
		{http.MethodPost, "/api/v1/screen/capture", http.StatusOK},
		{http.MethodPost, "/api/v1/screen/retake", http.StatusOK},
		{http.MethodPost, "/api/v1/screen/landing", http.StatusOK},
		{http.MethodPost, "/api/v1/screen/submit", http.StatusConflict},
		{http.MethodPost, "/api/v1/screen/elsewhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d (%s)", tt.method, tt.path, tt.want, rec.Code, rec.Body.String())
		}
	}
}

func TestServeKiosk(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html; charset=utf-8", "<title>Face Attendance</title>"},
		{"/kiosk.js", "application/javascript; charset=utf-8", "EventSource"},
		{"/enroll", "text/html; charset=utf-8", "<title>Face Attendance</title>"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", tt.path, rec.Code)
			continue
		}
		if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
			t.Errorf("GET %s: expected %q, got %q", tt.path, tt.contentType, ct)
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Errorf("GET %s: body does not contain %q", tt.path, tt.contains)
		}
	}
}
