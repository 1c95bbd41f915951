package workflow

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNavigationTimer_FiresOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewNavigationTimer(clock)
	var fired atomic.Int32

	timer.Arm(time.Second, func() { fired.Add(1) })
	if !timer.Pending() {
		t.Fatal("expected pending timer")
	}

	clock.Advance(time.Second)
	waitFor(t, func() bool { return fired.Load() == 1 })

	clock.Advance(time.Hour)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 1 {
		t.Errorf("expected one fire, got %d", fired.Load())
	}
	if timer.Pending() {
		t.Error("timer still pending after fire")
	}
}

func TestNavigationTimer_CancelPreventsFire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewNavigationTimer(clock)
	var fired atomic.Int32

	timer.Arm(time.Second, func() { fired.Add(1) })
	if !timer.Cancel() {
		t.Error("expected Cancel to report a pending action")
	}
	if timer.Cancel() {
		t.Error("second Cancel must report nothing pending")
	}

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("cancelled timer fired %d times", fired.Load())
	}
}

func TestNavigationTimer_RearmReplacesPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewNavigationTimer(clock)
	var first, second atomic.Int32

	timer.Arm(time.Second, func() { first.Add(1) })
	timer.Arm(3*time.Second, func() { second.Add(1) })

	clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if first.Load() != 0 || second.Load() != 0 {
		t.Fatalf("unexpected fire: first=%d second=%d", first.Load(), second.Load())
	}

	clock.Advance(time.Second)
	waitFor(t, func() bool { return second.Load() == 1 })
	if first.Load() != 0 {
		t.Errorf("superseded action fired")
	}
}
