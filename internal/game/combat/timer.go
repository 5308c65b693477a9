package combat

import (
	"sync"
	"time"
)

// TurnTimer fires a callback after a configurable interval unless stopped.
// It keeps turn pacing outside the handler: ExecuteFullTurn never sleeps
// or schedules itself. Safe for concurrent use.
type TurnTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewTurnTimer creates and starts a timer that calls onFire after interval.
// onFire is called in a separate goroutine.
//
// Precondition: interval > 0; onFire must not be nil.
// Postcondition: Returns a running TurnTimer; onFire will be called unless
// Stop is called first.
func NewTurnTimer(interval time.Duration, onFire func()) *TurnTimer {
	tt := &TurnTimer{}
	tt.timer = tt.schedule(interval, onFire)
	return tt
}

// Reset cancels the current timer and starts a new one with the provided
// interval and callback.
//
// Precondition: interval > 0; onFire must not be nil.
// Postcondition: onFire will be called after interval from now unless Stop
// is called first.
func (tt *TurnTimer) Reset(interval time.Duration, onFire func()) {
	tt.mu.Lock()
	tt.stopped = false
	tt.timer.Stop()
	tt.mu.Unlock()

	next := tt.schedule(interval, onFire)

	tt.mu.Lock()
	tt.timer = next
	tt.mu.Unlock()
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopped = true
	tt.timer.Stop()
}

// schedule arms a timer that checks the stopped flag before firing.
func (tt *TurnTimer) schedule(interval time.Duration, onFire func()) *time.Timer {
	return time.AfterFunc(interval, func() {
		tt.mu.Lock()
		stopped := tt.stopped
		tt.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
}
