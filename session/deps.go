package session

import (
	"context"
	"time"

	"github.com/xtplay/xtplay/clock"
	"github.com/xtplay/xtplay/epg"
	"github.com/xtplay/xtplay/orientation"
)

// Events receives engine notifications. Engines may call it from any
// goroutine; the session moves each call onto its queue.
type Events interface {
	OnLoad(duration float64)
	OnProgress(currentTime, buffered float64)
	OnBuffering(buffering bool)
	OnError(err error)
}

// Engine is the media engine that decodes and renders the stream.
// Calls must not block on playback.
type Engine interface {
	Open(url string, events Events) error
	Seek(seconds float64) error
	SetPaused(paused bool) error
	SetMuted(muted bool) error
	SetVolume(volume float64) error
	SetRate(rate float64) error
	Close() error
}

// Display is the host surface: orientation, status bar and screen brightness.
type Display interface {
	orientation.Platform
	SetBrightness(level float64)
}

// EPGSource loads guide programs for a live channel.
type EPGSource interface {
	EPG(ctx context.Context, streamID int) ([]epg.Program, error)
}

// Recorder persists recently watched live channels.
type Recorder interface {
	RecordRecent(id int, name string, at time.Time) error
}

// Deps are the collaborators of a session. EPG and Recorder are optional.
type Deps struct {
	Engine   Engine
	Display  Display
	EPG      EPGSource
	Recorder Recorder
	Clock    clock.Clock
	// Post hands a function to the session's queue. Without it, callbacks and
	// guide lookups run inline on the calling goroutine.
	Post func(func())
}
