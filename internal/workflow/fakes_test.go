package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/gateway"
)

type fakeCamera struct {
	mu       sync.Mutex
	state    camera.State
	artifact *camera.Artifact
	devErr   *camera.DeviceError
	closes   int
}

func (c *fakeCamera) Acquire(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.devErr != nil {
		c.state = camera.StateUnavailable
		return c.devErr
	}
	c.state = camera.StateReady
	return nil
}

func (c *fakeCamera) Capture(ctx context.Context) (*camera.Artifact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != camera.StateReady {
		return nil, camera.ErrNotReady
	}
	c.artifact = &camera.Artifact{
		DisplayEncoding: "data:image/jpeg;base64,/9j/",
		Bytes:           []byte{0xff, 0xd8, 0xff},
		CapturedAt:      time.Now(),
	}
	c.state = camera.StateCaptured
	return c.artifact, nil
}

func (c *fakeCamera) Retake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != camera.StateCaptured {
		return camera.ErrNothingToRetake
	}
	c.artifact = nil
	c.state = camera.StateReady
	return nil
}

func (c *fakeCamera) Artifact() *camera.Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

func (c *fakeCamera) State() camera.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeCamera) DeviceError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.devErr == nil {
		return nil
	}
	return c.devErr
}

func (c *fakeCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	c.artifact = nil
	if c.state != camera.StateUnavailable {
		c.state = camera.StateIdle
	}
	return nil
}

func (c *fakeCamera) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// fakeVerifier counts calls and optionally blocks until release is closed.
type fakeVerifier struct {
	mu      sync.Mutex
	calls   int
	lastID  string
	result  *gateway.VerificationResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (v *fakeVerifier) Verify(ctx context.Context, employeeID string, image []byte) (*gateway.VerificationResult, error) {
	v.mu.Lock()
	v.calls++
	v.lastID = employeeID
	started, release := v.started, v.release
	result, err := v.result, v.err
	v.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return result, err
}

func (v *fakeVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

type fakeEnroller struct {
	mu    sync.Mutex
	calls int
	last  gateway.EnrollRequest
	ack   *gateway.EnrollmentAck
	err   error
}

func (e *fakeEnroller) Enroll(ctx context.Context, req gateway.EnrollRequest) (*gateway.EnrollmentAck, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.last = req
	return e.ack, e.err
}

func (e *fakeEnroller) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func mustMessages(t *testing.T, lang string) *config.Messages {
	t.Helper()
	msgs, err := config.LoadMessages(lang)
	if err != nil {
		t.Fatalf("LoadMessages(%q) failed: %v", lang, err)
	}
	return msgs
}

func testLocalizer(t *testing.T) Localizer {
	t.Helper()
	return mustMessages(t, "en")
}

// navigationProbe records navigate callbacks.
type navigationProbe struct {
	ch chan struct{}
}

func newNavigationProbe() *navigationProbe {
	return &navigationProbe{ch: make(chan struct{}, 4)}
}

func (p *navigationProbe) navigate() {
	p.ch <- struct{}{}
}

func (p *navigationProbe) expectNavigation(t *testing.T) {
	t.Helper()
	select {
	case <-p.ch:
	case <-time.After(time.Second):
		t.Fatal("expected navigation")
	}
}

func (p *navigationProbe) expectNoNavigation(t *testing.T) {
	t.Helper()
	select {
	case <-p.ch:
		t.Fatal("unexpected navigation")
	case <-time.After(50 * time.Millisecond):
	}
}

func newCheckInFixture(t *testing.T, v *fakeVerifier) (*Controller[gateway.VerificationResult], *fakeCamera, clockwork.FakeClock, *navigationProbe) {
	t.Helper()
	cam := &fakeCamera{}
	clock := clockwork.NewFakeClock()
	probe := newNavigationProbe()
	c := NewCheckIn(v, cam, testLocalizer(t), 3*time.Second, WithClock(clock), WithNavigate(probe.navigate))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return c, cam, clock, probe
}

func fillCheckIn(t *testing.T, c *Controller[gateway.VerificationResult]) {
	t.Helper()
	if err := c.SetField(FieldEmployeeID, "7"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if _, err := c.Capture(context.Background()); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
}

func verifiedResult() *gateway.VerificationResult {
	return &gateway.VerificationResult{
		Verification:    true,
		Message:         "Check-in successful",
		SimilarityScore: 0.87,
		Threshold:       0.6,
		Attendance: gateway.Attendance{
			ID:          12,
			UserID:      7,
			UserName:    "Budi Santoso",
			CheckInTime: time.Date(2026, 3, 2, 8, 15, 0, 0, time.Local),
			Status:      gateway.AttendanceStatusSuccess,
		},
	}
}
