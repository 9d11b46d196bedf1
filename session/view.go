package session

import (
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/epg"
	"github.com/xtplay/xtplay/gesture"
	"github.com/xtplay/xtplay/orientation"
	"github.com/xtplay/xtplay/transport"
)

// View is an immutable snapshot of a session for renderers.
type View struct {
	Target    Target
	Lifecycle Lifecycle
	Transport transport.Snapshot
	Rate      float64
	Seekable  bool

	ControlsVisible bool
	ControlsOpacity float64
	OpenPanels      []Panel
	QualityMenu     bool

	IndicatorKind    gesture.Kind
	IndicatorValue   float64
	IndicatorOpacity float64
	Gesture          gesture.Kind
	PendingSeek      mo.Option[float64]

	Layout          orientation.Layout
	StatusBarHidden bool

	Now  mo.Option[epg.Program]
	Next mo.Option[epg.Program]

	// Error is the message of the last engine failure. Retry and Back are the
	// available choices while it is set.
	Error string
}

// Loading reports whether the loading indicator should show.
func (v View) Loading() bool {
	return v.Lifecycle == Initializing || (v.Transport.Buffering && v.Lifecycle != Error)
}

// View captures the current state.
func (s *Session) View() View {
	now := s.now()

	v := View{
		Target:           s.target,
		Lifecycle:        s.lifecycle,
		Transport:        s.transport.Snapshot(),
		Rate:             s.rate,
		Seekable:         s.seekable(),
		ControlsVisible:  s.overlay.Visible(),
		ControlsOpacity:  s.overlay.Opacity(now),
		QualityMenu:      s.cfg.QualityMenu,
		IndicatorKind:    s.indicator.Kind(now),
		IndicatorValue:   s.indicator.Value(),
		IndicatorOpacity: s.indicator.Opacity(now),
		PendingSeek:      mo.None[float64](),
		Layout:           s.orient.Layout(),
		StatusBarHidden:  s.orient.StatusBarHidden(),
		Now:              epg.Current(s.programs, now),
		Next:             epg.Next(s.programs, now),
	}

	for _, p := range []Panel{Settings, Quality, Info} {
		if s.overlay.IsOpen(p.blocker()) {
			v.OpenPanels = append(v.OpenPanels, p)
		}
	}
	if s.touch != nil {
		v.Gesture = s.touch.Kind()
		v.PendingSeek = s.touch.Pending()
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	return v
}

// PanelOpen reports whether p is open.
func (v View) PanelOpen(p Panel) bool {
	for _, open := range v.OpenPanels {
		if open == p {
			return true
		}
	}
	return false
}
