// Package timer provides the FSM's named session timers
// (ConnectRetryTimer, HoldTimer, KeepaliveTimer) as a thin,
// restartable wrapper over time.AfterFunc.
package timer

import (
	"sync"
	"time"
)

// Timer fires f once after interval elapses, and can be stopped or
// restarted with a new interval. It is safe for concurrent use.
type Timer struct {
	mu       sync.Mutex
	timer    *time.Timer
	f        func()
	interval time.Duration
	running  bool
}

// New creates a timer armed with interval; f runs once it fires. An
// interval of zero means the timer is disabled: it never runs (spec
// §4.7: a negotiated HoldTime of 0 disables the HoldTimer).
func New(interval time.Duration, f func()) *Timer {
	t := &Timer{interval: interval, f: f}
	if interval > 0 {
		t.timer = time.AfterFunc(interval, t.fire)
		t.running = true
	}
	return t
}

// fire marks the timer stopped before invoking the caller's function,
// since a fired AfterFunc timer is not running again until reset.
func (t *Timer) fire() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.f()
}

// Reset restarts the timer. With no argument it reuses the last
// interval; an explicit duration overrides it for this and future
// resets. Resetting to zero stops the timer.
func (t *Timer) Reset(interval ...time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(interval) > 0 {
		t.interval = interval[0]
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.interval <= 0 {
		t.running = false
		return
	}
	t.timer = time.AfterFunc(t.interval, t.fire)
	t.running = true
}

// Stop cancels the timer. Unlike time.Timer, a Timer created with
// time.AfterFunc never sends on a channel, so Stop never blocks
// waiting to drain one.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.running = false
}

// Running reports whether the timer is currently counting down.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
