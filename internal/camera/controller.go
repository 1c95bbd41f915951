package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Artifact is one captured photo.
// Bytes is the JPEG payload for upload; DisplayEncoding is a data URL for previews.
type Artifact struct {
	DisplayEncoding string
	Bytes           []byte
	CapturedAt      time.Time
}

// Controller owns a camera device for the lifetime of one screen. It holds at
// most one artifact; Retake discards it while keeping the device open.
// The mutex is never held across device I/O.
type Controller struct {
	mu          sync.Mutex
	device      Device
	constraints Constraints
	state       State
	stream      Stream
	artifact    *Artifact
	deviceErr   *DeviceError
	capturing   bool
	closed      bool
	clock       clockwork.Clock
	logger      *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClock overrides the clock used to timestamp artifacts.
func WithClock(clock clockwork.Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates an idle controller; call Acquire to open the device.
func NewController(device Device, constraints Constraints, opts ...ControllerOption) *Controller {
	c := &Controller{
		device:      device,
		constraints: constraints,
		state:       StateIdle,
		clock:       clockwork.NewRealClock(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire opens the camera exclusively. A failure is latched: later calls return
// the same *DeviceError without touching the device. Calling Acquire while the
// device is held or being opened is a no-op.
func (c *Controller) Acquire(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.deviceErr != nil:
		err := c.deviceErr
		c.mu.Unlock()
		return err
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.state != StateIdle:
		c.mu.Unlock()
		return nil
	}
	c.state = StateDeviceAcquiring
	c.mu.Unlock()

	c.logger.Debug("camera_acquire_started", "width", c.constraints.Width, "height", c.constraints.Height, "facing", c.constraints.FacingMode)
	stream, err := c.device.Open(ctx, c.constraints)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		// Torn down while the device was opening, release the late handle
		if err == nil {
			if cerr := stream.Close(); cerr != nil {
				c.logger.Warn("camera_release_failed", "error", cerr)
			}
		}
		return ErrClosed
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			c.state = StateIdle
			return fmt.Errorf("acquire camera: %w", err)
		}
		c.deviceErr = newDeviceError(err)
		c.state = StateUnavailable
		c.logger.Warn("camera_unavailable", "reason", c.deviceErr.Reason, "error", err)
		return c.deviceErr
	}

	c.stream = stream
	c.state = StateReady
	c.logger.Info("camera_ready")
	return nil
}

// Capture reads one frame and encodes it as a JPEG artifact. It is only valid in
// StateReady; otherwise it returns ErrNotReady and changes nothing.
func (c *Controller) Capture(ctx context.Context) (*Artifact, error) {
	c.mu.Lock()
	if c.state != StateReady || c.capturing {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	c.capturing = true
	stream := c.stream
	constraints := c.constraints
	c.mu.Unlock()

	artifact, err := c.grab(ctx, stream, constraints)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.capturing = false

	if c.closed || c.stream != stream {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}

	c.artifact = artifact
	c.state = StateCaptured
	c.logger.Info("camera_captured", "bytes", len(artifact.Bytes))
	return artifact, nil
}

func (c *Controller) grab(ctx context.Context, stream Stream, constraints Constraints) (*Artifact, error) {
	frame, err := stream.ReadFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	data, err := encodeFrame(frame, constraints)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		DisplayEncoding: displayEncoding(data),
		Bytes:           data,
		CapturedAt:      c.clock.Now(),
	}, nil
}

// Retake discards the captured artifact and returns to StateReady without
// reopening the device. Outside StateCaptured it returns ErrNothingToRetake.
func (c *Controller) Retake() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCaptured {
		return ErrNothingToRetake
	}
	c.artifact = nil
	c.state = StateReady
	return nil
}

// Artifact returns the current artifact, or nil when nothing is captured.
func (c *Controller) Artifact() *Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

// State returns the current capture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DeviceError returns the latched device error, if any.
func (c *Controller) DeviceError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deviceErr == nil {
		return nil
	}
	return c.deviceErr
}

// Close releases the camera. It is safe to call on every exit path and more
// than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	stream := c.stream
	c.stream = nil
	c.artifact = nil
	if c.state != StateUnavailable {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if stream == nil {
		return nil
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("release camera: %w", err)
	}
	c.logger.Debug("camera_released")
	return nil
}
