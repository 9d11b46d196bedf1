package overlay

import (
	"time"

	"github.com/xtplay/xtplay/gesture"
)

// Phase is the animation stage of the gesture indicator.
type Phase int

const (
	Idle Phase = iota
	FadingIn
	Holding
	FadingOut
)

func (p Phase) String() string {
	switch p {
	case FadingIn:
		return "fading in"
	case Holding:
		return "holding"
	case FadingOut:
		return "fading out"
	default:
		return "idle"
	}
}

// Indicator is the transient badge shown while a volume, brightness or seek
// gesture changes its value. Only one kind is displayed at a time.
type Indicator struct {
	timing Timing

	kind  gesture.Kind
	value float64
	at    time.Time
}

// NewIndicator returns an idle indicator.
func NewIndicator(timing Timing) *Indicator {
	return &Indicator{timing: timing}
}

// Flash shows value for kind. Flashing the kind already on screen keeps it fully
// visible and restarts the hold; a different kind replaces it.
func (i *Indicator) Flash(kind gesture.Kind, value float64, now time.Time) {
	if kind == gesture.None {
		return
	}

	switch i.Phase(now) {
	case Holding, FadingOut:
		if i.kind == kind {
			i.at = now.Add(-i.timing.IndicatorFadeIn)
			break
		}
		i.at = now
	case FadingIn:
		if i.kind != kind {
			i.at = now
		}
	default:
		i.at = now
	}

	i.kind = kind
	i.value = value
}

// Clear hides the indicator immediately.
func (i *Indicator) Clear() {
	i.kind = gesture.None
	i.value = 0
	i.at = time.Time{}
}

// Kind returns the displayed kind, or None when idle at now.
func (i *Indicator) Kind(now time.Time) gesture.Kind {
	if i.Phase(now) == Idle {
		return gesture.None
	}
	return i.kind
}

// Value returns the last flashed value.
func (i *Indicator) Value() float64 {
	return i.value
}

// Phase returns the animation stage at now.
func (i *Indicator) Phase(now time.Time) Phase {
	if i.kind == gesture.None {
		return Idle
	}

	elapsed := now.Sub(i.at)
	t := i.timing
	switch {
	case elapsed < 0:
		return Idle
	case elapsed < t.IndicatorFadeIn:
		return FadingIn
	case elapsed < t.IndicatorFadeIn+t.IndicatorHold:
		return Holding
	case elapsed < t.IndicatorFadeIn+t.IndicatorHold+t.IndicatorFadeOut:
		return FadingOut
	default:
		return Idle
	}
}

// Opacity returns the animated opacity at now, in [0,1].
func (i *Indicator) Opacity(now time.Time) float64 {
	elapsed := now.Sub(i.at)
	t := i.timing
	switch i.Phase(now) {
	case FadingIn:
		return ramp(elapsed, t.IndicatorFadeIn)
	case Holding:
		return 1
	case FadingOut:
		return 1 - ramp(elapsed-t.IndicatorFadeIn-t.IndicatorHold, t.IndicatorFadeOut)
	default:
		return 0
	}
}
