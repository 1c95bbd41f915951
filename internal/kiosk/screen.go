package kiosk

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

// ScreenKind names a kiosk screen.
type ScreenKind string

const (
	ScreenLanding ScreenKind = "landing"
	ScreenEnroll  ScreenKind = "enroll"
	ScreenCheckIn ScreenKind = "checkin"
)

// ParseScreenKind validates a screen name from a URL or flag.
func ParseScreenKind(s string) (ScreenKind, error) {
	switch k := ScreenKind(s); k {
	case ScreenLanding, ScreenEnroll, ScreenCheckIn:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScreen, s)
	}
}

// Screen is an active workflow screen, independent of its result type.
type Screen interface {
	Name() string
	Start(ctx context.Context) error
	SetFields(values workflow.Fields) error
	Capture(ctx context.Context) (*camera.Artifact, error)
	Retake() error
	Submit(ctx context.Context) error
	Snapshot() workflow.Snapshot
	Close() error
}

// workflowScreen hides the typed result of a workflow.Controller.
type workflowScreen[R any] struct {
	*workflow.Controller[R]
}

func (s workflowScreen[R]) Submit(ctx context.Context) error {
	_, err := s.Controller.Submit(ctx)
	return err
}

// ScreenSnapshot is what the kiosk page renders.
type ScreenSnapshot struct {
	Visit    string             `json:"visit"`
	Screen   ScreenKind         `json:"screen"`
	Workflow *workflow.Snapshot `json:"workflow,omitempty"`
}
