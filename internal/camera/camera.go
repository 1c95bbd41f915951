// Package camera owns the capture device for one kiosk screen and turns live
// frames into JPEG artifacts that can be previewed and uploaded.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Sentinel errors for capture operations.
var (
	ErrPermissionDenied  = errors.New("camera permission denied")
	ErrDeviceUnavailable = errors.New("camera unavailable")
	ErrNotReady          = errors.New("camera is not ready to capture")
	ErrNothingToRetake   = errors.New("no captured photo to retake")
	ErrClosed            = errors.New("capture controller closed")
)

// State is the capture lifecycle state.
type State int

const (
	StateIdle State = iota
	StateDeviceAcquiring
	StateReady
	StateCaptured
	StateUnavailable // device error latched until the controller is replaced
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDeviceAcquiring:
		return "device_acquiring"
	case StateReady:
		return "ready"
	case StateCaptured:
		return "captured"
	case StateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Constraints describe the requested capture format.
type Constraints struct {
	Width      int
	Height     int
	FacingMode string
	Quality    int
}

// DefaultConstraints returns 640x480 from the front camera.
func DefaultConstraints() Constraints {
	return Constraints{
		Width:      constants.DefaultCaptureWidth,
		Height:     constants.DefaultCaptureHeight,
		FacingMode: constants.FacingUser,
		Quality:    constants.DefaultJPEGQuality,
	}
}

// ConstraintsFromConfig maps the camera configuration onto capture constraints.
func ConstraintsFromConfig(cfg config.CameraConfig) Constraints {
	c := DefaultConstraints()
	if cfg.Width > 0 && cfg.Height > 0 {
		c.Width, c.Height = cfg.Width, cfg.Height
	}
	if cfg.Facing != "" {
		c.FacingMode = cfg.Facing
	}
	if cfg.Quality > 0 && cfg.Quality <= 100 {
		c.Quality = cfg.Quality
	}
	return c
}

// Device opens a camera. Open must fail with an error wrapping
// ErrPermissionDenied or ErrDeviceUnavailable when the camera cannot be used.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is an open camera handle.
type Stream interface {
	ReadFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// DeviceError is the persistent "device unavailable" condition of a controller.
type DeviceError struct {
	Reason error // ErrPermissionDenied or ErrDeviceUnavailable
	Err    error
}

func (e *DeviceError) Error() string {
	switch {
	case e.Err == nil:
		return e.Reason.Error()
	case errors.Is(e.Err, e.Reason):
		return e.Err.Error()
	default:
		return e.Reason.Error() + ": " + e.Err.Error()
	}
}

func (e *DeviceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// newDeviceError classifies an Open failure.
func newDeviceError(err error) *DeviceError {
	reason := ErrDeviceUnavailable
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, fs.ErrPermission) {
		reason = ErrPermissionDenied
	}
	return &DeviceError{Reason: reason, Err: err}
}

// DeviceFromConfig picks the device implementation for the configured source.
// Without a source the returned device always reports ErrDeviceUnavailable.
func DeviceFromConfig(cfg config.CameraConfig) Device {
	switch {
	case cfg.Command != "":
		return &CommandDevice{Command: cfg.Command}
	case cfg.Source != "":
		return &FileDevice{Path: cfg.Source}
	default:
		return noDevice{}
	}
}

// noDevice is used when no camera is configured.
type noDevice struct{}

func (noDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	return nil, fmt.Errorf("%w: no camera configured (set CAMERA_SOURCE or CAMERA_COMMAND)", ErrDeviceUnavailable)
}
