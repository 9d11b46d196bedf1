package session

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopStopped is returned by Run once the loop was stopped.
var ErrLoopStopped = errors.New("session: loop stopped")

// Loop is a serialized queue of functions. Everything posted runs on the
// goroutine that called Run, one at a time, in posting order.
type Loop struct {
	queue chan func()
	done  chan struct{}
	stop  sync.Once
}

// NewLoop returns a loop buffering up to size pending functions.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post enqueues f. It blocks while the queue is full and drops f once the
// loop has stopped.
func (l *Loop) Post(f func()) {
	select {
	case <-l.done:
	case l.queue <- f:
	}
}

// Run executes posted functions until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrLoopStopped
		case f := <-l.queue:
			f()
		}
	}
}

// Stop ends Run. Pending functions are discarded.
func (l *Loop) Stop() {
	l.stop.Do(func() { close(l.done) })
}
