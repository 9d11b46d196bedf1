// Package player drives the external media engine.
// The only backend is mpv, controlled through its JSON-IPC interface; it satisfies
// session.Engine and reports playback progress back as engine events.
package player

import (
	"errors"

	"github.com/xtplay/xtplay/session"
)

var (
	// ErrExited is reported when mpv goes away while a session still uses it.
	ErrExited = errors.New("mpv exited")

	// ErrPlayback wraps the reason mpv gives when a file fails to play.
	ErrPlayback = errors.New("playback failed")
)

// DefaultBinary is the executable looked up on PATH when Options.Binary is empty.
const DefaultBinary = "mpv"

// Options configures a spawned mpv process.
type Options struct {
	// Binary is the mpv executable.
	Binary string

	// Title is shown in the mpv window.
	Title string

	// UserAgent and Headers are sent with every HTTP request mpv makes.
	UserAgent string
	Headers   map[string]string
}

var _ session.Engine = (*MPV)(nil)
