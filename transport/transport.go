// Package transport owns playback position, duration, pause/mute/volume/brightness and
// the buffer-health estimate of one playback session.
//
// State is not safe for concurrent use; the owning session mutates it from its event queue.
package transport

import (
	"math"

	"github.com/samber/lo"
)

// Value bounds shared with the gesture classifier.
const (
	MinVolume     = 0.0
	MaxVolume     = 1.0
	MinBrightness = 0.1
	MaxBrightness = 1.0
)

// Config seeds a new State.
type Config struct {
	Volume     float64
	Brightness float64
	Thresholds Thresholds
	// LiveWindow is the read-ahead, in seconds, treated as a full buffer while the
	// duration is unknown. Zero leaves the estimate at Poor for live streams.
	LiveWindow float64
}

// DefaultConfig returns full volume and brightness with the default thresholds.
func DefaultConfig() Config {
	return Config{
		Volume:     1,
		Brightness: 1,
		Thresholds: DefaultThresholds(),
		LiveWindow: 30,
	}
}

// Snapshot is an immutable copy of State for renderers.
type Snapshot struct {
	CurrentTime  float64
	Duration     float64
	Paused       bool
	Muted        bool
	Volume       float64
	Brightness   float64
	BufferHealth float64
	Quality      Quality
	Buffering    bool
	Err          error
}

// Progress returns CurrentTime/Duration in [0,1], or 0 while the duration is unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return lo.Clamp(s.CurrentTime/s.Duration, 0, 1)
}

// State is the mutable transport of a playback session.
type State struct {
	cfg Config

	currentTime  float64
	duration     float64
	paused       bool
	muted        bool
	volume       float64
	brightness   float64
	bufferHealth float64
	quality      Quality
	buffering    bool
	err          error
}

// New returns a playing, unmuted state with the configured volume and brightness.
func New(cfg Config) *State {
	return &State{
		cfg:        cfg,
		volume:     lo.Clamp(cfg.Volume, MinVolume, MaxVolume),
		brightness: lo.Clamp(cfg.Brightness, MinBrightness, MaxBrightness),
		quality:    Poor,
	}
}

// Snapshot copies the current values.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		CurrentTime:  s.currentTime,
		Duration:     s.duration,
		Paused:       s.paused,
		Muted:        s.muted,
		Volume:       s.volume,
		Brightness:   s.brightness,
		BufferHealth: s.bufferHealth,
		Quality:      s.quality,
		Buffering:    s.buffering,
		Err:          s.err,
	}
}

func (s *State) CurrentTime() float64 { return s.currentTime }
func (s *State) Duration() float64    { return s.duration }
func (s *State) Paused() bool         { return s.paused }
func (s *State) Muted() bool          { return s.muted }
func (s *State) Volume() float64      { return s.volume }
func (s *State) Brightness() float64  { return s.brightness }
func (s *State) Quality() Quality     { return s.quality }
func (s *State) Err() error           { return s.err }

// TogglePause flips the pause flag and returns the new value.
func (s *State) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// SetPaused sets the pause flag.
func (s *State) SetPaused(paused bool) {
	s.paused = paused
}

// ToggleMute flips the mute flag and returns the new value.
func (s *State) ToggleMute() bool {
	s.muted = !s.muted
	return s.muted
}

// SetVolume stores v clamped to [0,1]. Raising the volume above zero unmutes.
func (s *State) SetVolume(v float64) float64 {
	if math.IsNaN(v) {
		return s.volume
	}
	s.volume = lo.Clamp(v, MinVolume, MaxVolume)
	if s.volume > 0 {
		s.muted = false
	}
	return s.volume
}

// SetBrightness stores b clamped to [0.1,1].
func (s *State) SetBrightness(b float64) float64 {
	if math.IsNaN(b) {
		return s.brightness
	}
	s.brightness = lo.Clamp(b, MinBrightness, MaxBrightness)
	return s.brightness
}

// SkipBy moves the position by seconds, forward or back, and returns the new position.
func (s *State) SkipBy(seconds float64) float64 {
	return s.SeekTo(s.currentTime + seconds)
}

// SeekTo moves the position to t, clamped to [0, duration] (only the lower bound
// applies while the duration is unknown), and returns the new position.
func (s *State) SeekTo(t float64) float64 {
	if math.IsNaN(t) {
		return s.currentTime
	}
	s.currentTime = s.clampTime(t)
	return s.currentTime
}

// OnEngineLoaded records the duration reported by the engine.
func (s *State) OnEngineLoaded(duration float64) {
	if duration > 0 && !math.IsInf(duration, 0) {
		s.duration = duration
	}
	s.currentTime = s.clampTime(s.currentTime)
	s.buffering = false
	s.err = nil
}

// OnEngineProgress records the position and recomputes buffer health and quality.
func (s *State) OnEngineProgress(currentTime, buffered float64) {
	if !math.IsNaN(currentTime) {
		s.currentTime = s.clampTime(currentTime)
	}
	s.bufferHealth = s.healthPercent(buffered)
	s.quality = s.cfg.Thresholds.Classify(s.bufferHealth)
}

// OnEngineError suspends playback. Position and duration are kept so a retry can
// resume the display state.
func (s *State) OnEngineError(err error) {
	s.err = err
	s.paused = true
	s.buffering = false
}

// ClearError forgets the last engine error.
func (s *State) ClearError() {
	s.err = nil
}

// OnEngineBuffering records whether the engine is stalled on its cache.
func (s *State) OnEngineBuffering(buffering bool) {
	s.buffering = buffering
}

func (s *State) clampTime(t float64) float64 {
	if s.duration > 0 {
		return lo.Clamp(t, 0, s.duration)
	}
	return math.Max(t, 0)
}

func (s *State) healthPercent(buffered float64) float64 {
	if math.IsNaN(buffered) {
		return 0
	}
	var percent float64
	switch {
	case s.duration > 0:
		percent = buffered / s.duration * 100
	case s.cfg.LiveWindow > 0:
		percent = (buffered - s.currentTime) / s.cfg.LiveWindow * 100
	}
	return lo.Clamp(percent, 0, 100)
}
