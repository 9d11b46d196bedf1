package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/clock"
	"github.com/xtplay/xtplay/favorites"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/session"
)

type engine struct {
	opened  []string
	events  session.Events
	paused  []bool
	muted   []bool
	volumes []float64
	closed  int
}

func (e *engine) Open(url string, events session.Events) error {
	e.opened = append(e.opened, url)
	e.events = events
	return nil
}

func (e *engine) Seek(float64) error { return nil }

func (e *engine) SetPaused(p bool) error {
	e.paused = append(e.paused, p)
	return nil
}

func (e *engine) SetMuted(m bool) error {
	e.muted = append(e.muted, m)
	return nil
}

func (e *engine) SetVolume(v float64) error {
	e.volumes = append(e.volumes, v)
	return nil
}

func (e *engine) SetRate(float64) error { return nil }

func (e *engine) Close() error {
	e.closed++
	return nil
}

func press(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func newTestBubble(options *Options) (*statefulBubble, *engine, *clock.Fake) {
	eng := &engine{}
	fake := clock.NewFake(time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC))

	options.Config = session.DefaultConfig()
	options.Deps = func(session.Target) (session.Deps, error) {
		return session.Deps{Engine: eng, Clock: fake}, nil
	}

	b := newBubble(options)
	b.resize(100, 30)
	return b, eng, fake
}

func TestPointer(t *testing.T) {
	Convey("Given a pointer with 8x16 cells", t, func() {
		p := &pointer{cellWidth: 8, cellHeight: 16}

		Convey("A left drag becomes a touch at cell centers", func() {
			So(p.translate(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 0, 0)), ShouldResemble, touch{phase: touchStart, x: 4, y: 8})
			So(p.translate(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 2, 1)), ShouldResemble, touch{phase: touchMove, x: 20, y: 24})
			So(p.translate(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 2, 1)).phase, ShouldEqual, touchEnd)
		})

		Convey("Motion without a press is ignored", func() {
			So(p.translate(mouse(tea.MouseActionMotion, tea.MouseButtonNone, 3, 3)).phase, ShouldEqual, touchNone)
		})

		Convey("Another button cancels a drag", func() {
			p.translate(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 0, 0))
			So(p.translate(mouse(tea.MouseActionPress, tea.MouseButtonRight, 0, 0)).phase, ShouldEqual, touchCancel)
			So(p.down, ShouldBeFalse)
		})

		Convey("Terminal sizes convert to pixels", func() {
			w, h := p.pixels(100, 30)
			So(w, ShouldEqual, 800)
			So(h, ShouldEqual, 480)
		})
	})
}

func TestTerminalDisplay(t *testing.T) {
	Convey("Given a terminal display", t, func() {
		d := newTerminalDisplay()

		Convey("It starts bright and unlocked", func() {
			So(d.dimmed(), ShouldBeFalse)
			So(d.locked, ShouldBeFalse)
		})

		Convey("Low brightness dims the frame", func() {
			d.SetBrightness(0.3)
			So(d.dimmed(), ShouldBeTrue)
		})

		Convey("Orientation requests always succeed", func() {
			So(d.LockLandscape(), ShouldBeNil)
			So(d.locked, ShouldBeTrue)
			So(d.Unlock(), ShouldBeNil)
			So(d.CanOverride(), ShouldBeTrue)
		})
	})
}

func TestPlayer(t *testing.T) {
	Convey("Given a bubble started on a movie", t, func() {
		filesystem.SetMemMapFs()

		target := session.Target{URL: "http://panel/movie/u/p/9.mkv", Title: "Heat", Kind: session.VideoOnDemand}
		b, eng, fake := newTestBubble(&Options{Target: mo.Some(target)})

		So(b.Init(), ShouldNotBeNil)
		So(b.state, ShouldEqual, playerState)
		So(eng.opened, ShouldResemble, []string{target.URL})
		So(b.view.Lifecycle, ShouldEqual, session.Initializing)
		So(b.View(), ShouldContainSubstring, "Loading")

		eng.events.OnLoad(3600)
		eng.events.OnProgress(60, 600)
		fake.Advance(session.DefaultConfig().Timing.FadeIn)
		b.Update(frameMsg(time.Now()))

		Convey("Engine events reach the view", func() {
			So(b.view.Lifecycle, ShouldEqual, session.Playing)
			So(b.view.Transport.Duration, ShouldEqual, 3600)
			So(b.View(), ShouldContainSubstring, "1:00:00")
		})

		Convey("Keys drive the session", func() {
			b.Update(press(" "))
			So(eng.paused, ShouldResemble, []bool{true})
			So(b.view.Lifecycle, ShouldEqual, session.Paused)

			b.Update(press("m"))
			So(eng.muted, ShouldResemble, []bool{true})
		})

		Convey("Panels open and back closes them first", func() {
			b.Update(press("s"))
			So(b.view.PanelOpen(session.Settings), ShouldBeTrue)
			So(b.View(), ShouldContainSubstring, "Settings")

			b.Update(press("esc"))
			So(b.view.PanelOpen(session.Settings), ShouldBeFalse)
			So(eng.closed, ShouldEqual, 0)

			_, cmd := b.Update(press("esc"))
			So(eng.closed, ShouldEqual, 1)
			So(cmd, ShouldNotBeNil)
			So(b.supervisor, ShouldBeNil)
		})

		Convey("A vertical drag on the right half sets the volume", func() {
			b.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 80, 10))
			b.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 80, 15))
			So(b.view.Gesture.String(), ShouldEqual, "volume")

			b.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 80, 15))
			So(eng.volumes, ShouldNotBeEmpty)
			So(eng.volumes[len(eng.volumes)-1], ShouldAlmostEqual, 0.84, 0.001)
		})

		Convey("The wheel nudges the volume", func() {
			b.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelDown, 10, 10))
			So(b.view.Transport.Volume, ShouldAlmostEqual, 0.95, 0.001)
		})

		Convey("Engine errors offer retry", func() {
			eng.events.OnError(errTest("stream gone"))
			b.Update(frameMsg(time.Now()))
			So(b.view.Lifecycle, ShouldEqual, session.Error)
			So(b.View(), ShouldContainSubstring, "stream gone")

			b.Update(press("r"))
			So(b.view.Lifecycle, ShouldEqual, session.Initializing)
			So(eng.opened, ShouldHaveLength, 2)
		})

		Reset(func() {
			b.closePlayer()
		})
	})
}

func TestBrowse(t *testing.T) {
	Convey("Given a bubble browsing channels", t, func() {
		filesystem.SetMemMapFs()

		items := []catalog.Item{
			{ID: 7, Kind: catalog.Live, Name: "News"},
			{ID: 11, Kind: catalog.Series, Name: "Dark"},
		}
		b, eng, _ := newTestBubble(&Options{
			Title: "Live",
			Items: items,
			Resolve: func(item catalog.Item) (session.Target, error) {
				return session.Target{URL: "http://panel/live/u/p/7.ts", Title: item.Name, StreamID: mo.Some(item.ID)}, nil
			},
		})

		So(b.state, ShouldEqual, browseState)
		So(b.itemsC.Items(), ShouldHaveLength, 2)

		Convey("Enter plays and back returns to the list", func() {
			b.Update(press("enter"))
			So(b.state, ShouldEqual, playerState)
			So(eng.opened, ShouldHaveLength, 1)

			b.Update(press("esc"))
			So(b.state, ShouldEqual, browseState)
			So(eng.closed, ShouldEqual, 1)
		})

		Convey("Favorites toggle on the selected item", func() {
			b.Update(press("*"))
			has, err := favorites.Has(favorites.Live, 7)
			So(err, ShouldBeNil)
			So(has, ShouldBeTrue)

			b.Update(press("*"))
			has, _ = favorites.Has(favorites.Live, 7)
			So(has, ShouldBeFalse)
		})

		Convey("Episodes of a series are pushed as a new level", func() {
			b.state = loadingState
			b.Update(episodesMsg{title: "Dark", items: []catalog.Item{{ID: 1, Kind: catalog.Episode, Name: "S01E01 Secrets"}}})
			So(b.state, ShouldEqual, browseState)
			So(b.itemsC.Title, ShouldEqual, "Dark")

			b.Update(press("esc"))
			So(b.itemsC.Title, ShouldEqual, "Live")
		})

		Reset(func() {
			b.closePlayer()
		})
	})
}

type errTest string

func (e errTest) Error() string { return string(e) }
