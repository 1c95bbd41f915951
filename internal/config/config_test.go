package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ATTENDANCE_API_URL", "ATTENDANCE_API_TOKEN", "ATTENDANCE_API_TIMEOUT",
		"CAMERA_SOURCE", "CAMERA_COMMAND", "CAMERA_WIDTH", "CAMERA_HEIGHT",
		"CAMERA_FACING", "CAMERA_JPEG_QUALITY", "ENROLL_REDIRECT_DELAY",
		"CHECKIN_REDIRECT_DELAY", "WEB_HOST", "WEB_PORT", "ATTENDANCE_LANG",
	} {
		// t.Setenv registers the restore, Unsetenv then removes the value
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Gateway.URL != "http://localhost:8080" {
		t.Errorf("expected default gateway URL, got '%s'", cfg.Gateway.URL)
	}
	if cfg.Gateway.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Gateway.Timeout)
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.Facing != "user" {
		t.Errorf("expected facing 'user', got '%s'", cfg.Camera.Facing)
	}
	if cfg.Camera.Quality != 92 {
		t.Errorf("expected quality 92, got %d", cfg.Camera.Quality)
	}
	if cfg.Workflow.EnrollRedirectDelay != 2*time.Second {
		t.Errorf("expected enroll delay 2s, got %v", cfg.Workflow.EnrollRedirectDelay)
	}
	if cfg.Workflow.CheckInRedirectDelay != 3*time.Second {
		t.Errorf("expected check-in delay 3s, got %v", cfg.Workflow.CheckInRedirectDelay)
	}
	if cfg.Web.Port != 8090 {
		t.Errorf("expected web port 8090, got %d", cfg.Web.Port)
	}
	if cfg.Language != "id" {
		t.Errorf("expected language 'id', got '%s'", cfg.Language)
	}
	if cfg.Messages == nil {
		t.Fatal("expected messages to be loaded")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATTENDANCE_API_URL", "https://verifier.example.com/")
	t.Setenv("ATTENDANCE_API_TOKEN", "secret")
	t.Setenv("CAMERA_WIDTH", "1280")
	t.Setenv("CAMERA_HEIGHT", "720")
	t.Setenv("CAMERA_SOURCE", "/tmp/face.jpg")
	t.Setenv("WEB_PORT", "9000")
	t.Setenv("ATTENDANCE_LANG", "en-GB")

	cfg := Load()

	if cfg.Gateway.URL != "https://verifier.example.com" {
		t.Errorf("expected trailing slash trimmed, got '%s'", cfg.Gateway.URL)
	}
	if cfg.Gateway.Token != "secret" {
		t.Errorf("expected token 'secret', got '%s'", cfg.Gateway.Token)
	}
	if cfg.Camera.Width != 1280 || cfg.Camera.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.Source != "/tmp/face.jpg" {
		t.Errorf("expected camera source, got '%s'", cfg.Camera.Source)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("expected web port 9000, got %d", cfg.Web.Port)
	}
	if cfg.Language != "en" {
		t.Errorf("expected language 'en', got '%s'", cfg.Language)
	}
}

func TestLoad_InvalidCameraWidth(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAMERA_WIDTH", "wide")

	cfg := Load()

	if cfg.Camera.Width != 640 {
		t.Errorf("expected default width for invalid input, got %d", cfg.Camera.Width)
	}
}

func TestLoad_QualityOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAMERA_JPEG_QUALITY", "150")

	cfg := Load()

	if cfg.Camera.Quality != 92 {
		t.Errorf("expected default quality for out-of-range input, got %d", cfg.Camera.Quality)
	}
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"Unset", "", 5 * time.Second},
		{"Milliseconds", "3000", 3 * time.Second},
		{"GoDuration", "1500ms", 1500 * time.Millisecond},
		{"Seconds", "4s", 4 * time.Second},
		{"Zero", "0", 5 * time.Second},
		{"Negative", "-2s", 5 * time.Second},
		{"Garbage", "soon", 5 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DELAY", tc.value)
			got := envDuration("TEST_DELAY", 5*time.Second)
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestLoadMessages_LanguageMatching(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "id"},
		{"id", "id"},
		{"id-ID", "id"},
		{"en", "en"},
		{"en-US", "en"},
		{"fr", "id"},
		{"not a tag", "id"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			msgs, err := LoadMessages(tc.input)
			if err != nil {
				t.Fatalf("LoadMessages failed: %v", err)
			}
			if msgs.Language() != tc.expected {
				t.Errorf("expected language '%s', got '%s'", tc.expected, msgs.Language())
			}
		})
	}
}

func TestMessages_Text(t *testing.T) {
	id, err := LoadMessages("id")
	if err != nil {
		t.Fatalf("LoadMessages failed: %v", err)
	}
	en, err := LoadMessages("en")
	if err != nil {
		t.Fatalf("LoadMessages failed: %v", err)
	}

	if got := id.Text("checkin.failed"); got != "Gagal melakukan check-in. Silakan coba lagi." {
		t.Errorf("unexpected Indonesian text: '%s'", got)
	}
	if got := en.Text("checkin.failed"); got != "Check-in failed. Please try again." {
		t.Errorf("unexpected English text: '%s'", got)
	}
	if got := en.Text("no.such.key"); got != "no.such.key" {
		t.Errorf("expected missing key to echo the key, got '%s'", got)
	}
}

func TestMessages_FormatTime(t *testing.T) {
	ts := time.Date(2026, time.October, 7, 14, 5, 9, 0, time.Local)

	id, _ := LoadMessages("id")
	if got := id.FormatTime(ts); got != "7/10/2026, 14.05.09" {
		t.Errorf("unexpected Indonesian time: '%s'", got)
	}

	en, _ := LoadMessages("en")
	if got := en.FormatTime(ts); got != "10/7/2026, 2:05:09 PM" {
		t.Errorf("unexpected English time: '%s'", got)
	}
}
