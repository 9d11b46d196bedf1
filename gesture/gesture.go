// Package gesture turns a continuous drag into one of three mutually exclusive
// adjustments (volume, brightness, seek) and maps its displacement to a target value.
//
// A Session is created on touch-start and fed relative samples. The kind is decided
// once, the first time displacement exceeds the threshold, and never changes after.
// A Session only proposes values; applying them is the caller's job.
package gesture

import (
	"math"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/transport"
)

// Kind identifies which adjustment a gesture controls.
type Kind int

const (
	None Kind = iota
	Volume
	Brightness
	Seek
)

func (k Kind) String() string {
	switch k {
	case Volume:
		return "volume"
	case Brightness:
		return "brightness"
	case Seek:
		return "seek"
	default:
		return "none"
	}
}

// Config holds the tuning values of the classifier.
type Config struct {
	// Threshold is the displacement in pixels, on either axis, that locks a kind.
	Threshold float64
	// VerticalGain converts vertical pixels into volume/brightness units.
	VerticalGain float64
	// LiveSeekRate is the seconds-per-pixel rate used while the duration is unknown.
	LiveSeekRate float64
	// DVRBack and DVRForward bound a live seek around the anchor time, in seconds.
	DVRBack    float64
	DVRForward float64
}

// DefaultConfig returns the product-tuned defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:    15,
		VerticalGain: 0.002,
		LiveSeekRate: 0.1,
		DVRBack:      300,
		DVRForward:   30,
	}
}

// Geometry is the size of the touch surface in pixels.
type Geometry struct {
	Width, Height float64
}

// Content describes what the playing target allows.
type Content struct {
	Live bool
	// DVR marks live content that can be seeked within a bounded window.
	DVR bool
}

// Seekable reports whether horizontal drags may seek.
func (c Content) Seekable() bool {
	return !c.Live || c.DVR
}

// Anchor is the transport snapshot taken when the gesture starts.
type Anchor struct {
	Volume     float64
	Brightness float64
	Time       float64
	Duration   float64
}

// Sample is a move event relative to the gesture's start point.
type Sample struct {
	DX, DY float64
	// X is the absolute horizontal position of the pointer.
	X float64
}

// Change is the value a locked gesture proposes after a sample.
// For Seek it is the staged target, which is only committed on release.
type Change struct {
	Kind  Kind
	Value float64
}

// Release describes how a gesture ended.
type Release struct {
	// Tap is set when the threshold was never crossed.
	Tap    bool
	Kind   Kind
	Commit mo.Option[float64]
}

// Classifier creates gesture sessions sharing one configuration.
type Classifier struct {
	cfg Config
}

// New returns a classifier using cfg.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Begin starts a gesture at horizontal position startX.
func (c *Classifier) Begin(startX float64, geo Geometry, content Content, anchor Anchor) *Session {
	return &Session{
		cfg:     c.cfg,
		startX:  startX,
		geo:     geo,
		content: content,
		anchor:  anchor,
		pending: mo.None[float64](),
	}
}

// Session is one in-flight gesture.
type Session struct {
	cfg     Config
	startX  float64
	geo     Geometry
	content Content
	anchor  Anchor

	kind    Kind
	crossed bool
	pending mo.Option[float64]
	ended   bool
}

// Kind returns the locked kind, or None before the threshold is crossed.
func (s *Session) Kind() Kind {
	return s.kind
}

// Locked reports whether a kind has been decided.
func (s *Session) Locked() bool {
	return s.kind != None
}

// Anchor returns the transport snapshot taken at touch-start.
func (s *Session) Anchor() Anchor {
	return s.anchor
}

// Pending returns the staged seek target. It is only present for Seek gestures.
func (s *Session) Pending() mo.Option[float64] {
	return s.pending
}

// Move feeds a sample. It returns the proposed change once a kind is locked.
func (s *Session) Move(sample Sample) (Change, bool) {
	if s.ended || math.IsNaN(sample.DX) || math.IsNaN(sample.DY) {
		return Change{}, false
	}

	if s.kind == None {
		if math.Abs(sample.DX) > s.cfg.Threshold || math.Abs(sample.DY) > s.cfg.Threshold {
			s.crossed = true
		}
		s.kind = s.classify(sample.DX, sample.DY)
		if s.kind == None {
			return Change{}, false
		}
	}

	switch s.kind {
	case Volume:
		v := lo.Clamp(s.anchor.Volume-sample.DY*s.cfg.VerticalGain, transport.MinVolume, transport.MaxVolume)
		return Change{Kind: Volume, Value: v}, true
	case Brightness:
		b := lo.Clamp(s.anchor.Brightness-sample.DY*s.cfg.VerticalGain, transport.MinBrightness, transport.MaxBrightness)
		return Change{Kind: Brightness, Value: b}, true
	case Seek:
		target := s.seekTarget(sample.DX)
		s.pending = mo.Some(target)
		return Change{Kind: Seek, Value: target}, true
	}
	return Change{}, false
}

// End finishes the gesture. A gesture that never moved past the threshold is a tap.
// One that did without locking (a horizontal drag on content that cannot seek)
// changes nothing but is reported with Kind None so the caller can reveal the controls.
func (s *Session) End() Release {
	if s.ended {
		return Release{}
	}
	s.ended = true

	switch s.kind {
	case None:
		return Release{Tap: !s.crossed}
	case Seek:
		return Release{Kind: Seek, Commit: s.pending}
	default:
		return Release{Kind: s.kind}
	}
}

// Cancel abandons the gesture without committing a staged seek.
func (s *Session) Cancel() {
	s.ended = true
	s.pending = mo.None[float64]()
}

// classify decides the kind for a displacement. Horizontal drags on content that
// cannot seek stay unclassified, so a later vertical movement can still lock.
func (s *Session) classify(dx, dy float64) Kind {
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax <= s.cfg.Threshold && ay <= s.cfg.Threshold {
		return None
	}

	if ay > ax {
		if s.startX >= s.geo.Width/2 {
			return Volume
		}
		return Brightness
	}

	if s.content.Seekable() {
		return Seek
	}
	return None
}

func (s *Session) seekTarget(dx float64) float64 {
	rate := s.cfg.LiveSeekRate
	if s.anchor.Duration > 0 && s.geo.Width > 0 {
		rate = s.anchor.Duration / s.geo.Width
	}
	target := s.anchor.Time + dx*rate

	switch {
	case s.content.Live:
		target = lo.Clamp(target, s.anchor.Time-s.cfg.DVRBack, s.anchor.Time+s.cfg.DVRForward)
		return math.Max(target, 0)
	case s.anchor.Duration > 0:
		return lo.Clamp(target, 0, s.anchor.Duration)
	default:
		return math.Max(target, 0)
	}
}
