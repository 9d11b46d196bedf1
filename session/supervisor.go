package session

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/xtplay/xtplay/clock"
	"github.com/xtplay/xtplay/log"
)

// ErrGaveUp is returned once a supervised session failed more often than allowed.
var ErrGaveUp = errors.New("session: too many restarts")

// DefaultMaxRestarts bounds how often a crashed session is replaced.
const DefaultMaxRestarts = 3

// Supervisor keeps a session alive across panics in its handlers. A panic is
// recovered and logged, the broken session is closed, and a fresh one is
// mounted for the same target with fresh collaborators.
//
// Supervisor methods must run on the queue that Post feeds.
type Supervisor struct {
	Target Target
	Config Config
	// Deps builds the collaborators of each mounted session. Post and, when
	// unset, Clock are filled in by the supervisor.
	Deps func() (Deps, error)
	// Post is the queue all sessions run on.
	Post        func(func())
	MaxRestarts int
	// OnRestart is told about each replacement session.
	OnRestart func(*Session)

	ctx      context.Context
	current  *Session
	restarts int
	err      error
}

// Start mounts the first session.
func (sv *Supervisor) Start(ctx context.Context) error {
	sv.ctx = ctx
	return sv.mount()
}

// Current returns the live session, or nil after giving up.
func (sv *Supervisor) Current() *Session {
	return sv.current
}

// Restarts returns how many times the session was replaced.
func (sv *Supervisor) Restarts() int {
	return sv.restarts
}

// Err returns ErrGaveUp once the restart budget is spent.
func (sv *Supervisor) Err() error {
	return sv.err
}

// Do runs f against the current session, recovering a panic.
func (sv *Supervisor) Do(f func(*Session)) {
	if sv.current == nil {
		return
	}
	sv.guard(func() { f(sv.current) })
}

// Close closes the current session.
func (sv *Supervisor) Close() {
	if sv.current != nil {
		sv.current.Close()
		sv.current = nil
	}
}

func (sv *Supervisor) post(f func()) {
	if sv.Post == nil {
		sv.guard(f)
		return
	}
	sv.Post(func() { sv.guard(f) })
}

func (sv *Supervisor) guard(f func()) {
	defer func() {
		if r := recover(); r != nil {
			sv.recover(r)
		}
	}()
	f()
}

func (sv *Supervisor) recover(r any) {
	log.Errorf("session: recovered panic: %v\n%s", r, debug.Stack())

	broken := sv.current
	sv.current = nil
	if broken != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("session: panic while closing broken session: %v", r)
				}
			}()
			broken.Close()
		}()
	}

	limit := sv.MaxRestarts
	if limit <= 0 {
		limit = DefaultMaxRestarts
	}
	if sv.restarts >= limit {
		sv.err = ErrGaveUp
		log.Errorf("session: giving up on %s after %d restarts", sv.Target, sv.restarts)
		return
	}
	sv.restarts++

	if err := sv.mount(); err != nil {
		sv.err = err
		log.Errorf("session: restart failed: %s", err)
		return
	}
	if sv.OnRestart != nil {
		sv.OnRestart(sv.current)
	}
}

func (sv *Supervisor) mount() error {
	if sv.Deps == nil {
		return errors.New("session: supervisor has no deps factory")
	}
	deps, err := sv.Deps()
	if err != nil {
		return fmt.Errorf("session: building collaborators: %w", err)
	}
	deps.Post = sv.post
	if deps.Clock == nil {
		deps.Clock = clock.Real{Post: sv.post}
	}

	s, err := New(sv.Target, sv.Config, deps)
	if err != nil {
		return err
	}
	sv.current = s

	ctx := sv.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var mountErr error
	sv.guard(func() { mountErr = s.Mount(ctx) })
	return mountErr
}
