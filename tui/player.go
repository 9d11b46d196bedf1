package tui

import (
	"context"
	"errors"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/xtplay/xtplay/favorites"
	"github.com/xtplay/xtplay/internal/ui"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/session"
)

const (
	volumeStep     = 0.05
	brightnessStep = 0.05
	rateStep       = 0.25
)

// post hands work to the Update goroutine, which owns every session.
func (b *statefulBubble) post(f func()) {
	if b.send == nil {
		f()
		return
	}
	b.send(postMsg(f))
}

// play mounts a supervised session for target and switches to the player.
func (b *statefulBubble) play(target session.Target) tea.Cmd {
	b.closePlayer()

	ctx, cancel := context.WithCancel(context.Background())
	b.display = newTerminalDisplay()
	b.pointer.down = false

	sv := &session.Supervisor{
		Target: target,
		Config: b.options.Config,
		Deps: func() (session.Deps, error) {
			if b.options.Deps == nil {
				return session.Deps{}, errors.New("no player engine configured")
			}
			deps, err := b.options.Deps(target)
			if err != nil {
				return deps, err
			}
			if deps.Display == nil {
				deps.Display = b.display
			}
			return deps, nil
		},
		Post:        b.post,
		MaxRestarts: b.options.MaxRestarts,
		OnRestart: func(s *session.Session) {
			log.Warnf("tui: player restarted for %s", target)
			b.resizeSession(s)
		},
	}

	if err := sv.Start(ctx); err != nil {
		cancel()
		b.raiseError(err)
		return nil
	}

	b.supervisor, b.cancelPlayer = sv, cancel
	b.resizePlayer()
	b.refresh()
	b.newState(playerState)

	if b.ticking {
		return b.spinnerC.Tick
	}
	b.ticking = true
	return tea.Batch(b.spinnerC.Tick, b.frame())
}

// closePlayer tears the player down. It is safe to call without one.
func (b *statefulBubble) closePlayer() {
	if b.supervisor == nil {
		return
	}

	b.supervisor.Close()
	b.cancelPlayer()
	b.supervisor, b.cancelPlayer = nil, nil
	b.view = session.View{}
}

// leavePlayer returns to the browser, or quits when playback was the whole program.
func (b *statefulBubble) leavePlayer() tea.Cmd {
	b.closePlayer()
	if b.levels.Len() == 0 || !b.previousState() {
		return tea.Quit
	}
	return nil
}

func (b *statefulBubble) resizePlayer() {
	if b.supervisor == nil {
		return
	}
	b.supervisor.Do(b.resizeSession)
}

func (b *statefulBubble) resizeSession(s *session.Session) {
	if b.cols == 0 || b.rows == 0 {
		return
	}
	s.Resize(b.pointer.pixels(b.cols, b.rows))
}

// do runs f on the live session and refreshes the snapshot the view draws.
func (b *statefulBubble) do(f func(*session.Session)) {
	if b.supervisor == nil {
		return
	}
	b.supervisor.Do(f)
	b.refresh()
}

func (b *statefulBubble) refresh() {
	if b.supervisor == nil {
		return
	}

	if current := b.supervisor.Current(); current != nil {
		b.view = current.View()
		return
	}

	if err := b.supervisor.Err(); err != nil {
		b.closePlayer()
		b.raiseError(err)
	}
}

func (b *statefulBubble) frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// handlePlayerKey maps keys onto session commands.
func (b *statefulBubble) handlePlayerKey(msg tea.KeyMsg) tea.Cmd {
	v := b.view

	switch {
	case bubblesKey.Matches(msg, b.keymap.forceQuit):
		b.closePlayer()
		return tea.Quit
	case bubblesKey.Matches(msg, b.keymap.back):
		if len(v.OpenPanels) > 0 {
			b.do(func(s *session.Session) { s.ClosePanel(v.OpenPanels[len(v.OpenPanels)-1]) })
			return nil
		}
		return b.leavePlayer()
	case bubblesKey.Matches(msg, b.keymap.retry):
		b.do(func(s *session.Session) {
			if err := s.Retry(); err != nil {
				log.Debugf("tui: retry: %s", err)
			}
		})
	case bubblesKey.Matches(msg, b.keymap.playPause):
		b.do((*session.Session).TogglePause)
	case bubblesKey.Matches(msg, b.keymap.mute):
		b.do((*session.Session).ToggleMute)
	case bubblesKey.Matches(msg, b.keymap.skipForward):
		b.do((*session.Session).SkipForward)
	case bubblesKey.Matches(msg, b.keymap.skipBackward):
		b.do((*session.Session).SkipBackward)
	case bubblesKey.Matches(msg, b.keymap.volumeUp):
		b.do(func(s *session.Session) { s.SetVolume(v.Transport.Volume + volumeStep) })
	case bubblesKey.Matches(msg, b.keymap.volumeDown):
		b.do(func(s *session.Session) { s.SetVolume(v.Transport.Volume - volumeStep) })
	case bubblesKey.Matches(msg, b.keymap.brightnessUp):
		b.do(func(s *session.Session) { s.SetBrightness(v.Transport.Brightness + brightnessStep) })
	case bubblesKey.Matches(msg, b.keymap.brightnessDown):
		b.do(func(s *session.Session) { s.SetBrightness(v.Transport.Brightness - brightnessStep) })
	case bubblesKey.Matches(msg, b.keymap.faster):
		b.do(func(s *session.Session) { s.SetRate(v.Rate + rateStep) })
	case bubblesKey.Matches(msg, b.keymap.slower):
		b.do(func(s *session.Session) { s.SetRate(v.Rate - rateStep) })
	case bubblesKey.Matches(msg, b.keymap.fullscreen):
		b.do(func(s *session.Session) { s.ToggleFullscreen() })
	case bubblesKey.Matches(msg, b.keymap.controls):
		b.do((*session.Session).ToggleOverlay)
	case bubblesKey.Matches(msg, b.keymap.settings):
		b.do(func(s *session.Session) { s.TogglePanel(session.Settings) })
	case bubblesKey.Matches(msg, b.keymap.quality):
		b.do(func(s *session.Session) { s.TogglePanel(session.Quality) })
	case bubblesKey.Matches(msg, b.keymap.info):
		b.do(func(s *session.Session) { s.TogglePanel(session.Info) })
	case bubblesKey.Matches(msg, b.keymap.favorite):
		return b.toggleFavorite(v.Target)
	case bubblesKey.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}
	return nil
}

// handlePlayerMouse feeds drags to the gesture engine. The wheel adjusts volume.
func (b *statefulBubble) handlePlayerMouse(msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			b.do(func(s *session.Session) { s.SetVolume(b.view.Transport.Volume + volumeStep) })
			return
		case tea.MouseButtonWheelDown:
			b.do(func(s *session.Session) { s.SetVolume(b.view.Transport.Volume - volumeStep) })
			return
		}
	}

	t := b.pointer.translate(msg)
	switch t.phase {
	case touchStart:
		b.do(func(s *session.Session) { s.TouchStart(t.x, t.y) })
	case touchMove:
		b.do(func(s *session.Session) { s.TouchMove(t.x, t.y) })
	case touchEnd:
		b.do((*session.Session).TouchEnd)
	case touchCancel:
		b.do((*session.Session).TouchCancel)
	}
}

// toggleFavorite saves or forgets a live channel from the player.
func (b *statefulBubble) toggleFavorite(target session.Target) tea.Cmd {
	id, ok := target.StreamID.Get()
	if !ok {
		return ui.Notify("Only channels can be favorites here")
	}

	removed, err := favorites.Remove(favorites.Live, id)
	if err != nil {
		return ui.Notify("Favorites unavailable: " + err.Error())
	}
	if removed {
		return ui.Notify("Removed from favorites")
	}

	err = favorites.Add(favorites.Favorite{ID: id, Kind: favorites.Live, Name: target.Title, AddedAt: time.Now()})
	return ui.Notify(lo.Ternary(err == nil, "Added to favorites", "Favorites unavailable"))
}
