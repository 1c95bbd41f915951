package workflow

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// NavigationTimer runs a follow-up action once after a delay. Every Arm and
// Cancel bumps a generation counter, so a timer that fires after being
// superseded does nothing.
type NavigationTimer struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	timer      clockwork.Timer
	generation uint64
	pending    bool
}

func NewNavigationTimer(clock clockwork.Clock) *NavigationTimer {
	return &NavigationTimer{clock: clock}
}

// Arm schedules fn after d, replacing any pending action.
func (t *NavigationTimer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.generation++
	gen := t.generation
	t.pending = true
	t.timer = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		if gen != t.generation || !t.pending {
			t.mu.Unlock()
			return
		}
		t.pending = false
		t.timer = nil
		t.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending action and reports whether one was pending.
func (t *NavigationTimer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.pending {
		return false
	}
	t.generation++
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	return true
}

func (t *NavigationTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
