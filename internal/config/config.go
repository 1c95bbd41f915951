package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
)

type Config struct {
	Gateway  GatewayConfig
	Camera   CameraConfig
	Workflow WorkflowConfig
	Web      WebConfig
	Language string `default:"id"`
	Messages *Messages
}

type GatewayConfig struct {
	URL     string        `default:"http://localhost:8080"` // verifier base address, paths are appended to it
	Token   string        // optional bearer token sent with every request
	Timeout time.Duration `default:"30s"`
}

type CameraConfig struct {
	Source  string // still image read by the file device
	Command string // external frame grabber writing one image to stdout; wins over Source
	Width   int    `default:"640"`
	Height  int    `default:"480"`
	Facing  string `default:"user"`
	Quality int    `default:"92"`
}

type WorkflowConfig struct {
	EnrollRedirectDelay  time.Duration `default:"2s"`
	CheckInRedirectDelay time.Duration `default:"3s"`
}

type WebConfig struct {
	Host string `default:"0.0.0.0"`
	Port int    `default:"8090"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString returns the trimmed env value or the default when unset.
func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

// envDuration accepts Go durations ("3s") or bare milliseconds ("3000").
// Non-positive and unparsable values fall back to the default.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	if ms, err := strconv.Atoi(s); err == nil {
		if ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func Load() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// Struct tags are static, so this only fails on a programming error
		panic("invalid config defaults: " + err.Error())
	}

	cfg.Gateway.URL = strings.TrimRight(envString("ATTENDANCE_API_URL", cfg.Gateway.URL), "/")
	cfg.Gateway.Token = os.Getenv("ATTENDANCE_API_TOKEN")
	cfg.Gateway.Timeout = envDuration("ATTENDANCE_API_TIMEOUT", cfg.Gateway.Timeout)

	cfg.Camera.Source = os.Getenv("CAMERA_SOURCE")
	cfg.Camera.Command = os.Getenv("CAMERA_COMMAND")
	cfg.Camera.Width = envInt("CAMERA_WIDTH", cfg.Camera.Width)
	cfg.Camera.Height = envInt("CAMERA_HEIGHT", cfg.Camera.Height)
	cfg.Camera.Facing = envString("CAMERA_FACING", cfg.Camera.Facing)
	if q := envInt("CAMERA_JPEG_QUALITY", cfg.Camera.Quality); q <= 100 {
		cfg.Camera.Quality = q
	}

	cfg.Workflow.EnrollRedirectDelay = envDuration("ENROLL_REDIRECT_DELAY", cfg.Workflow.EnrollRedirectDelay)
	cfg.Workflow.CheckInRedirectDelay = envDuration("CHECKIN_REDIRECT_DELAY", cfg.Workflow.CheckInRedirectDelay)

	cfg.Web.Host = envString("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = envInt("WEB_PORT", cfg.Web.Port)

	cfg.Language = envString("ATTENDANCE_LANG", cfg.Language)
	cfg.SetLanguage(cfg.Language)

	return cfg
}

// SetLanguage switches the message catalog, e.g. from the --lang flag.
func (c *Config) SetLanguage(lang string) {
	msgs, err := LoadMessages(lang)
	if err != nil {
		// The catalog is embedded so this error should never happen in practice
		panic("failed to load embedded messages.yaml: " + err.Error())
	}
	c.Language = msgs.Language()
	c.Messages = msgs
}
