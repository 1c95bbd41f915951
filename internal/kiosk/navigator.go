// Package kiosk owns the screen the kiosk is showing and the camera that goes
// with it.
package kiosk

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

var (
	ErrUnknownScreen    = errors.New("unknown screen")
	ErrNoActiveWorkflow = errors.New("no active workflow on this screen")
)

// Gateway is what the kiosk screens submit to.
type Gateway interface {
	workflow.Enroller
	workflow.Verifier
}

type visit struct {
	id     string
	kind   ScreenKind
	screen Screen
}

// Navigator switches between screens. Leaving a screen closes its workflow and
// releases the camera before the next screen acquires it.
type Navigator struct {
	EventBroadcaster

	gateway     Gateway
	device      camera.Device
	constraints camera.Constraints
	loc         workflow.Localizer
	delays      config.WorkflowConfig
	clock       clockwork.Clock
	logger      *slog.Logger

	navMu   sync.Mutex // serializes navigations
	mu      sync.RWMutex
	current *visit
}

// Option configures a Navigator.
type Option func(*Navigator)

func WithClock(clock clockwork.Clock) Option {
	return func(n *Navigator) { n.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) { n.logger = logger }
}

func WithDelays(delays config.WorkflowConfig) Option {
	return func(n *Navigator) { n.delays = delays }
}

// NewNavigator starts on the landing screen.
func NewNavigator(gw Gateway, device camera.Device, constraints camera.Constraints, loc workflow.Localizer, opts ...Option) *Navigator {
	n := &Navigator{
		gateway:     gw,
		device:      device,
		constraints: constraints,
		loc:         loc,
		clock:       clockwork.NewRealClock(),
		logger:      slog.Default(),
		current:     &visit{id: uuid.NewString(), kind: ScreenLanding},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Navigate leaves the current screen and opens kind. A camera failure on the
// new screen is not a navigation error; it is shown in the screen's snapshot.
func (n *Navigator) Navigate(ctx context.Context, kind ScreenKind) (ScreenSnapshot, error) {
	n.navMu.Lock()
	defer n.navMu.Unlock()
	return n.navigateLocked(ctx, kind)
}

// navigateFrom is the navigation timer's callback. It only acts if the visit
// that armed the timer is still on screen.
func (n *Navigator) navigateFrom(visitID string, kind ScreenKind) {
	n.navMu.Lock()
	defer n.navMu.Unlock()

	if n.currentVisit().id != visitID {
		return
	}
	if _, err := n.navigateLocked(context.Background(), kind); err != nil {
		n.logger.Warn("kiosk_auto_navigation_failed", "to", kind, "error", err)
	}
}

func (n *Navigator) navigateLocked(ctx context.Context, kind ScreenKind) (ScreenSnapshot, error) {
	if _, err := ParseScreenKind(string(kind)); err != nil {
		return n.Snapshot(), err
	}

	var err error
	prev := n.currentVisit()
	if prev.screen != nil {
		err = multierr.Append(err, prev.screen.Close())
	}

	next := &visit{id: uuid.NewString(), kind: kind}
	switch kind {
	case ScreenEnroll:
		next.screen = workflowScreen[gateway.EnrollmentAck]{
			workflow.NewEnrollment(n.gateway, n.newCamera(), n.loc, n.delays.EnrollRedirectDelay, n.workflowOptions(next.id, kind)...),
		}
	case ScreenCheckIn:
		next.screen = workflowScreen[gateway.VerificationResult]{
			workflow.NewCheckIn(n.gateway, n.newCamera(), n.loc, n.delays.CheckInRedirectDelay, n.workflowOptions(next.id, kind)...),
		}
	}

	n.mu.Lock()
	n.current = next
	n.mu.Unlock()

	n.logger.Info("kiosk_navigated", "from", prev.kind, "to", kind, "visit", next.id)
	n.SendEvent(Event{Type: EventNavigate, Data: n.Snapshot()})

	if next.screen != nil {
		if serr := next.screen.Start(ctx); serr != nil && !workflow.IsKind(serr, workflow.KindDevice) {
			err = multierr.Append(err, serr)
		}
	}
	return n.Snapshot(), err
}

func (n *Navigator) newCamera() *camera.Controller {
	return camera.NewController(n.device, n.constraints, camera.WithClock(n.clock), camera.WithLogger(n.logger))
}

func (n *Navigator) workflowOptions(visitID string, kind ScreenKind) []workflow.Option {
	return []workflow.Option{
		workflow.WithClock(n.clock),
		workflow.WithLogger(n.logger),
		workflow.WithNavigate(func() { n.navigateFrom(visitID, ScreenLanding) }),
		workflow.WithOnChange(func(s workflow.Snapshot) {
			if n.currentVisit().id != visitID {
				return
			}
			n.SendEvent(Event{Type: EventState, Data: ScreenSnapshot{
				Visit:    visitID,
				Screen:   kind,
				Workflow: &s,
			}})
		}),
	}
}

func (n *Navigator) currentVisit() *visit {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Active returns the workflow on screen, or ErrNoActiveWorkflow on the landing
// screen.
func (n *Navigator) Active() (Screen, error) {
	v := n.currentVisit()
	if v.screen == nil {
		return nil, ErrNoActiveWorkflow
	}
	return v.screen, nil
}

// Snapshot describes the current screen.
func (n *Navigator) Snapshot() ScreenSnapshot {
	v := n.currentVisit()
	snap := ScreenSnapshot{Visit: v.id, Screen: v.kind}
	if v.screen != nil {
		ws := v.screen.Snapshot()
		snap.Workflow = &ws
	}
	return snap
}

// Close releases the current screen. The navigator shows the landing screen
// afterwards.
func (n *Navigator) Close() error {
	n.navMu.Lock()
	defer n.navMu.Unlock()

	prev := n.currentVisit()
	n.mu.Lock()
	n.current = &visit{id: uuid.NewString(), kind: ScreenLanding}
	n.mu.Unlock()

	if prev.screen == nil {
		return nil
	}
	return prev.screen.Close()
}
