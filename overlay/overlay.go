// Package overlay decides when the player controls are shown and hidden.
//
// The controls hide themselves after a period of inactivity unless a blocking
// element (a panel or a locked gesture) is open. Opacity is not stored; renderers
// poll Opacity with the current time and get the animated value.
package overlay

import (
	"time"

	"github.com/xtplay/xtplay/clock"
	"github.com/xtplay/xtplay/log"
)

// Timing holds the animation and auto-hide durations.
type Timing struct {
	HideDelay        time.Duration
	FadeIn           time.Duration
	FadeOut          time.Duration
	IndicatorFadeIn  time.Duration
	IndicatorHold    time.Duration
	IndicatorFadeOut time.Duration
}

// DefaultTiming returns the product-tuned durations.
func DefaultTiming() Timing {
	return Timing{
		HideDelay:        4 * time.Second,
		FadeIn:           200 * time.Millisecond,
		FadeOut:          300 * time.Millisecond,
		IndicatorFadeIn:  150 * time.Millisecond,
		IndicatorHold:    1200 * time.Millisecond,
		IndicatorFadeOut: 200 * time.Millisecond,
	}
}

// Blocker is an element that keeps the controls on screen while open.
type Blocker int

const (
	Settings Blocker = iota
	QualityMenu
	InfoPanel
	// Gesture suppresses auto-hide without forcing the controls visible.
	Gesture
)

func (b Blocker) String() string {
	switch b {
	case Settings:
		return "settings"
	case QualityMenu:
		return "quality menu"
	case InfoPanel:
		return "info panel"
	case Gesture:
		return "gesture"
	default:
		return "unknown"
	}
}

// Controller is the visibility state machine. It must be driven from a single
// goroutine; timer callbacks are expected to arrive through the same queue.
type Controller struct {
	clock  clock.Clock
	timing Timing

	visible   bool
	changedAt time.Time
	blockers  map[Blocker]struct{}

	timer   clock.Timer
	gen     uint64
	stopped bool
}

// New returns a hidden controller. Call Show to bring the controls up.
func New(c clock.Clock, timing Timing) *Controller {
	return &Controller{
		clock:    c,
		timing:   timing,
		blockers: make(map[Blocker]struct{}),
	}
}

// Timing returns the configured durations.
func (c *Controller) Timing() Timing {
	return c.timing
}

// Visible reports the target visibility. The fade may still be running.
func (c *Controller) Visible() bool {
	return c.visible
}

// Blocked reports whether any blocker is open.
func (c *Controller) Blocked() bool {
	return len(c.blockers) > 0
}

// IsOpen reports whether b is open.
func (c *Controller) IsOpen(b Blocker) bool {
	_, ok := c.blockers[b]
	return ok
}

// Pending reports whether an auto-hide is scheduled.
func (c *Controller) Pending() bool {
	return c.timer != nil
}

// Show makes the controls visible and restarts the auto-hide deadline.
func (c *Controller) Show() {
	if c.stopped {
		return
	}
	c.setVisible(true)
	c.arm()
}

// Interact registers a control interaction. It behaves like Show.
func (c *Controller) Interact() {
	c.Show()
}

// Hide hides the controls. It reports false if a blocker is open.
func (c *Controller) Hide() bool {
	if c.stopped || c.Blocked() {
		return false
	}
	c.disarm()
	c.setVisible(false)
	return true
}

// Toggle flips visibility. Hiding is refused while a blocker is open.
func (c *Controller) Toggle() {
	if c.visible {
		c.Hide()
		return
	}
	c.Show()
}

// Open registers a blocker and cancels the auto-hide deadline.
// Panels also force the controls visible.
func (c *Controller) Open(b Blocker) {
	if c.stopped {
		return
	}
	c.blockers[b] = struct{}{}
	c.disarm()
	if b != Gesture {
		c.setVisible(true)
	}
}

// Close removes a blocker. When the last one closes the deadline restarts.
func (c *Controller) Close(b Blocker) {
	if c.stopped {
		return
	}
	if _, ok := c.blockers[b]; !ok {
		return
	}
	delete(c.blockers, b)
	if !c.Blocked() && c.visible {
		c.arm()
	}
}

// Stop cancels the pending deadline and makes the controller inert.
func (c *Controller) Stop() {
	c.disarm()
	c.blockers = make(map[Blocker]struct{})
	c.stopped = true
}

// Opacity returns the animated opacity at now, in [0,1].
func (c *Controller) Opacity(now time.Time) float64 {
	if c.changedAt.IsZero() {
		if c.visible {
			return 1
		}
		return 0
	}

	elapsed := now.Sub(c.changedAt)
	if c.visible {
		return ramp(elapsed, c.timing.FadeIn)
	}
	return 1 - ramp(elapsed, c.timing.FadeOut)
}

func (c *Controller) setVisible(visible bool) {
	if c.visible == visible {
		return
	}
	c.visible = visible
	c.changedAt = c.clock.Now()
	log.Debugf("overlay visible=%t", visible)
}

// arm schedules the auto-hide, replacing any pending one.
func (c *Controller) arm() {
	c.disarm()
	if c.Blocked() || !c.visible {
		return
	}

	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.timing.HideDelay, func() {
		c.fire(gen)
	})
}

func (c *Controller) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// fire ignores callbacks of timers that were replaced or cancelled after their
// callback had already been queued.
func (c *Controller) fire(gen uint64) {
	if c.stopped || gen != c.gen {
		return
	}
	c.timer = nil
	if c.Blocked() {
		return
	}
	c.setVisible(false)
}

func ramp(elapsed, total time.Duration) float64 {
	if total <= 0 || elapsed >= total {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}
