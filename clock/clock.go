// Package clock abstracts timers so the player's timer-driven state machines can run
// against a virtual clock in tests and against a serialized event queue in production.
package clock

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already fired or was stopped.
	Stop() bool
}

// Clock provides the current time and deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the wall clock. When Post is set, fired callbacks are handed to it instead
// of running on the runtime timer goroutine, so they execute on the owner's event queue.
type Real struct {
	Post func(func())
}

// Now returns the wall-clock time.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f after d.
func (r Real) AfterFunc(d time.Duration, f func()) Timer {
	if r.Post == nil {
		return time.AfterFunc(d, f)
	}
	post := r.Post
	return time.AfterFunc(d, func() { post(f) })
}
