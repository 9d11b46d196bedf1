package session

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/xtplay/xtplay/gesture"
	"github.com/xtplay/xtplay/overlay"
	"github.com/xtplay/xtplay/transport"
)

// MediaKind tells live channels from on-demand media.
type MediaKind int

const (
	Live MediaKind = iota
	VideoOnDemand
)

func (k MediaKind) String() string {
	if k == Live {
		return "live"
	}
	return "vod"
}

// Target is what a session plays.
type Target struct {
	URL   string
	Title string
	Kind  MediaKind
	// StreamID identifies a live channel on the panel. It drives the guide
	// lookup and the recently watched list.
	StreamID mo.Option[int]
	// DVR marks live channels with a panel-side archive.
	DVR bool
}

func (t Target) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Title)
}

// Config selects the capabilities of a session. One session type covers both
// the regular player and the dedicated full-screen player.
type Config struct {
	// DVRSeek allows seeking inside the archive window of DVR-capable channels.
	DVRSeek bool
	// QualityMenu enables the quality selection panel.
	QualityMenu bool
	// PinLandscape keeps the player in landscape fullscreen while mounted.
	PinLandscape bool
	// SkipStep is the default skip distance in seconds.
	SkipStep float64

	Transport transport.Config
	Gesture   gesture.Config
	Timing    overlay.Timing
}

// DefaultConfig returns the regular player configuration.
func DefaultConfig() Config {
	return Config{
		DVRSeek:     true,
		QualityMenu: true,
		SkipStep:    10,
		Transport:   transport.DefaultConfig(),
		Gesture:     gesture.DefaultConfig(),
		Timing:      overlay.DefaultTiming(),
	}
}

// Panel is an element the user can open over the video.
type Panel int

const (
	Settings Panel = iota
	Quality
	Info
)

func (p Panel) String() string {
	return p.blocker().String()
}

func (p Panel) blocker() overlay.Blocker {
	switch p {
	case Quality:
		return overlay.QualityMenu
	case Info:
		return overlay.InfoPanel
	default:
		return overlay.Settings
	}
}

// Lifecycle is the coarse state of a session.
type Lifecycle int

const (
	Initializing Lifecycle = iota
	Ready
	Playing
	Paused
	Error
	Closing
)

func (l Lifecycle) String() string {
	switch l {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Error:
		return "error"
	default:
		return "closing"
	}
}
