// Package workflow implements the capture-submit-result state machine shared by
// the enrollment and check-in screens.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/gateway"
)

var errEmptyResult = errors.New("empty response from verifier")

// State is the workflow state.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateRejected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Fields holds form values by field name.
type Fields map[string]string

func (f Fields) Clone() Fields {
	return maps.Clone(f)
}

// Field describes one form input.
type Field struct {
	Name       string
	Required   bool
	MessageKey string // localized message shown when a required field is blank
}

// Localizer resolves message keys and formats times for display.
type Localizer interface {
	Text(key string) string
	FormatTime(t time.Time) string
}

// Camera is the capture side of a workflow screen.
type Camera interface {
	Acquire(ctx context.Context) error
	Capture(ctx context.Context) (*camera.Artifact, error)
	Retake() error
	Artifact() *camera.Artifact
	State() camera.State
	DeviceError() error
	Close() error
}

// Spec parameterizes a Controller for one workflow variant.
type Spec[R any] struct {
	Name            string
	Schema          []Field
	ImageField      string // multipart field that carries the artifact
	ImageMessageKey string // shown when no photo has been captured

	// Validate runs after the required-field checks. Optional.
	Validate func(Fields) *Error

	Submit           func(ctx context.Context, fields Fields, image []byte) (*R, error)
	Succeeded        func(*R) bool
	RejectionMessage func(*R) string
	// Present converts a result into its display form. Optional.
	Present func(*R, Localizer) any

	NavigateDelay time.Duration
	FailureKey    string
}

// Snapshot is a point-in-time view of a workflow for rendering.
type Snapshot struct {
	Workflow          string       `json:"workflow"`
	State             State        `json:"state"`
	Fields            Fields       `json:"fields"`
	Submitted         Fields       `json:"submitted,omitempty"`
	Camera            camera.State `json:"camera"`
	Preview           string       `json:"preview,omitempty"`
	Error             *Error       `json:"error,omitempty"`
	Result            any          `json:"result,omitempty"`
	NavigationPending bool         `json:"navigation_pending"`
}

type options struct {
	clock    clockwork.Clock
	navigate func()
	onChange func(Snapshot)
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*options)

// WithClock sets the clock driving the navigation timer.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithNavigate sets the action run when the post-success delay elapses.
func WithNavigate(fn func()) Option {
	return func(o *options) { o.navigate = fn }
}

// WithOnChange registers a callback that receives a snapshot after every
// transition. It is called without the controller lock held.
func WithOnChange(fn func(Snapshot)) Option {
	return func(o *options) { o.onChange = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Controller drives one workflow instance for one screen visit.
type Controller[R any] struct {
	spec   Spec[R]
	camera Camera
	loc    Localizer
	timer  *NavigationTimer
	opts   options

	mu         sync.Mutex
	state      State
	fields     Fields
	submitted  Fields
	result     *R
	err        *Error
	submitting bool
	closed     bool
}

func NewController[R any](spec Spec[R], cam Camera, loc Localizer, opts ...Option) *Controller[R] {
	o := options{
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	fields := make(Fields, len(spec.Schema))
	for _, f := range spec.Schema {
		fields[f.Name] = ""
	}

	return &Controller[R]{
		spec:   spec,
		camera: cam,
		loc:    loc,
		timer:  NewNavigationTimer(o.clock),
		opts:   o,
		state:  StateEditing,
		fields: fields,
	}
}

func (c *Controller[R]) Name() string {
	return c.spec.Name
}

// Start acquires the camera. A device failure is recorded as the workflow
// error and returned; the form stays usable.
func (c *Controller[R]) Start(ctx context.Context) error {
	err := c.camera.Acquire(ctx)
	if err == nil {
		c.changed()
		return nil
	}

	var devErr *camera.DeviceError
	if !errors.As(err, &devErr) {
		return err
	}

	wfErr := c.deviceError(err)
	c.mu.Lock()
	c.err = wfErr
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return wfErr
}

// SetField edits one field. See SetFields.
func (c *Controller[R]) SetField(name, value string) error {
	return c.SetFields(Fields{name: value})
}

// SetFields applies edits atomically. Unknown names reject the whole edit. An
// edit clears a shown result or error and cancels a pending navigation; an
// in-flight submission is left alone.
func (c *Controller[R]) SetFields(values Fields) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	for name := range values {
		if _, ok := c.fields[name]; !ok {
			c.mu.Unlock()
			return &Error{
				Kind:    KindValidation,
				Field:   name,
				Message: c.loc.Text("validation.unknown_field"),
				Err:     fmt.Errorf("%w: %q", ErrUnknownField, name),
			}
		}
	}
	maps.Copy(c.fields, values)
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// Capture takes a photo through the camera and counts as an edit.
func (c *Controller[R]) Capture(ctx context.Context) (*camera.Artifact, error) {
	if err := c.camera.DeviceError(); err != nil {
		return nil, c.deviceError(err)
	}
	artifact, err := c.camera.Capture(ctx)
	if err != nil {
		return nil, err
	}
	c.edited()
	return artifact, nil
}

// Retake discards the photo through the camera and counts as an edit.
func (c *Controller[R]) Retake() error {
	if err := c.camera.Retake(); err != nil {
		return err
	}
	c.edited()
	return nil
}

func (c *Controller[R]) edited() {
	c.mu.Lock()
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// resetLocked returns a finished workflow to editing.
func (c *Controller[R]) resetLocked() {
	c.timer.Cancel()
	if c.submitting {
		return
	}
	c.state = StateEditing
	c.result = nil
	if c.err != nil && c.err.Kind != KindDevice {
		c.err = nil
	}
}

// Submit validates the form and the captured photo, then hands a snapshot of
// the fields and the photo bytes to the submit operation.
//
// Validation failures return a KindValidation (or KindDevice) *Error without
// calling Submit. Transport failures return KindTransport. A well-formed
// negative answer returns the result together with a KindRejection *Error.
// A second call while the first is in flight returns ErrSubmitInProgress.
func (c *Controller[R]) Submit(ctx context.Context) (*R, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	c.timer.Cancel()
	c.state = StateValidating
	c.result = nil
	image, verr := c.validateLocked()
	if verr != nil {
		c.state = StateEditing
		c.err = verr
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.notify(snap)
		return nil, verr
	}

	c.submitting = true
	c.state = StateSubmitting
	c.err = nil
	fields := c.fields.Clone()
	c.submitted = fields
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.opts.logger.Info("workflow_submit_started", "workflow", c.spec.Name, "image_bytes", len(image))
	result, err := c.spec.Submit(ctx, fields, image)
	if err == nil && result == nil {
		err = errEmptyResult
	}

	c.mu.Lock()
	c.submitting = false
	var outErr error
	switch {
	case err != nil:
		c.state = StateFailed
		c.result = nil
		c.err = c.transportError(err)
		outErr = c.err
		c.opts.logger.Warn("workflow_submit_failed", "workflow", c.spec.Name, "error", err)
	case !c.spec.Succeeded(result):
		c.state = StateRejected
		c.result = result
		c.err = c.rejectionError(result)
		outErr = c.err
		c.opts.logger.Info("workflow_submit_rejected", "workflow", c.spec.Name, "message", c.err.Message)
	default:
		c.state = StateSucceeded
		c.result = result
		c.err = nil
		if !c.closed && c.opts.navigate != nil {
			c.timer.Arm(c.spec.NavigateDelay, c.opts.navigate)
		}
		c.opts.logger.Info("workflow_submit_succeeded", "workflow", c.spec.Name, "navigate_in", c.spec.NavigateDelay)
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return result, outErr
}

// validateLocked checks required fields in schema order, then the extra
// validation, then the photo. It returns the photo bytes on success.
func (c *Controller[R]) validateLocked() ([]byte, *Error) {
	for _, f := range c.spec.Schema {
		if f.Required && strings.TrimSpace(c.fields[f.Name]) == "" {
			key := f.MessageKey
			if key == "" {
				key = "validation.field_required"
			}
			return nil, &Error{Kind: KindValidation, Field: f.Name, Message: c.loc.Text(key)}
		}
	}

	if c.spec.Validate != nil {
		if err := c.spec.Validate(c.fields); err != nil {
			return nil, err
		}
	}

	artifact := c.camera.Artifact()
	if artifact == nil || len(artifact.Bytes) == 0 {
		if devErr := c.camera.DeviceError(); devErr != nil {
			return nil, c.deviceError(devErr)
		}
		return nil, &Error{Kind: KindValidation, Field: c.spec.ImageField, Message: c.loc.Text(c.spec.ImageMessageKey)}
	}
	return artifact.Bytes, nil
}

func (c *Controller[R]) transportError(err error) *Error {
	msg := gateway.RemoteMessage(err)
	if msg == "" {
		msg = c.loc.Text(c.spec.FailureKey)
	}
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

func (c *Controller[R]) rejectionError(result *R) *Error {
	var msg string
	if c.spec.RejectionMessage != nil {
		msg = c.spec.RejectionMessage(result)
	}
	if msg == "" {
		msg = c.loc.Text(c.spec.FailureKey)
	}
	return &Error{Kind: KindRejection, Message: msg}
}

func (c *Controller[R]) deviceError(err error) *Error {
	key := "device.unavailable"
	if errors.Is(err, camera.ErrPermissionDenied) {
		key = "device.permission_denied"
	}
	return &Error{Kind: KindDevice, Field: c.spec.ImageField, Message: c.loc.Text(key), Err: err}
}

// Snapshot returns the current view of the workflow.
func (c *Controller[R]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Result returns the last submission result, if one is shown.
func (c *Controller[R]) Result() *R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller[R]) snapshotLocked() Snapshot {
	snap := Snapshot{
		Workflow:          c.spec.Name,
		State:             c.state,
		Fields:            c.fields.Clone(),
		Submitted:         c.submitted.Clone(),
		Camera:            c.camera.State(),
		Error:             c.err,
		NavigationPending: c.timer.Pending(),
	}
	if artifact := c.camera.Artifact(); artifact != nil {
		snap.Preview = artifact.DisplayEncoding
	}
	if c.result != nil {
		if c.spec.Present != nil {
			snap.Result = c.spec.Present(c.result, c.loc)
		} else {
			snap.Result = c.result
		}
	}
	return snap
}

func (c *Controller[R]) changed() {
	c.notify(c.Snapshot())
}

func (c *Controller[R]) notify(snap Snapshot) {
	if c.opts.onChange != nil {
		c.opts.onChange(snap)
	}
}

// Close cancels a pending navigation and releases the camera. Safe to call
// more than once.
func (c *Controller[R]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.timer.Cancel()
	c.mu.Unlock()

	if err := c.camera.Close(); err != nil {
		return fmt.Errorf("close %s workflow: %w", c.spec.Name, err)
	}
	return nil
}
