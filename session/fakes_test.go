package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/xtplay/xtplay/clock"
	"github.com/xtplay/xtplay/epg"
)

type engine struct {
	opened  []string
	events  Events
	seeks   []float64
	paused  []bool
	muted   []bool
	volumes []float64
	rates   []float64
	closed  int
	openErr error
}

func (e *engine) Open(url string, events Events) error {
	e.opened = append(e.opened, url)
	e.events = events
	return e.openErr
}

func (e *engine) Seek(t float64) error {
	e.seeks = append(e.seeks, t)
	return nil
}

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

func (e *engine) SetRate(r float64) error {
	e.rates = append(e.rates, r)
	return nil
}

func (e *engine) Close() error {
	e.closed++
	return nil
}

type display struct {
	brightness []float64
	statusBar  []bool
	locks      int
	unlocks    int
}

func (d *display) LockLandscape() error           { d.locks++; return nil }
func (d *display) Unlock() error                  { d.unlocks++; return nil }
func (d *display) SetStatusBarHidden(hidden bool) { d.statusBar = append(d.statusBar, hidden) }
func (d *display) CanOverride() bool              { return true }
func (d *display) SetBrightness(level float64)    { d.brightness = append(d.brightness, level) }

type recorder struct {
	ids []int
	err error
}

func (r *recorder) RecordRecent(id int, _ string, _ time.Time) error {
	r.ids = append(r.ids, id)
	return r.err
}

// guide answers immediately unless gate is set, in which case it waits for
// the gate or for cancellation.
type guide struct {
	mu       sync.Mutex
	calls    int
	programs []epg.Program
	err      error
	gate     chan struct{}
}

func (g *guide) EPG(ctx context.Context, _ int) ([]epg.Program, error) {
	g.mu.Lock()
	g.calls++
	gate := g.gate
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.programs, g.err
}

func (g *guide) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// queue collects posted functions; tests drain it on their own goroutine.
type queue struct {
	ch chan func()
}

func newQueue() *queue {
	return &queue{ch: make(chan func(), 64)}
}

func (q *queue) post(f func()) {
	q.ch <- f
}

// next runs one posted function, waiting up to a second for it.
func (q *queue) next() bool {
	select {
	case f := <-q.ch:
		f()
		return true
	case <-time.After(time.Second):
		return false
	}
}

var epoch = time.Date(2026, 1, 1, 20, 30, 0, 0, time.UTC)

type fixture struct {
	clock    *clock.Fake
	engine   *engine
	display  *display
	recorder *recorder
	guide    *guide
}

func newFixture() *fixture {
	return &fixture{
		clock:    clock.NewFake(epoch),
		engine:   &engine{},
		display:  &display{},
		recorder: &recorder{},
		guide: &guide{programs: []epg.Program{
			{Title: "Evening News", Start: epoch.Add(-30 * time.Minute), Stop: epoch.Add(30 * time.Minute)},
			{Title: "Weather", Start: epoch.Add(30 * time.Minute), Stop: epoch.Add(40 * time.Minute)},
		}},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Engine:   f.engine,
		Display:  f.display,
		EPG:      f.guide,
		Recorder: f.recorder,
		Clock:    f.clock,
	}
}

func liveTarget(dvr bool) Target {
	return Target{URL: "http://panel.test/live/u/p/42.m3u8", Title: "News 24", Kind: Live, StreamID: mo.Some(42), DVR: dvr}
}

func vodTarget() Target {
	return Target{URL: "http://panel.test/movie/u/p/900.mkv", Title: "Heat", Kind: VideoOnDemand, StreamID: mo.None[int]()}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Transport.Volume = 0.5
	cfg.Transport.Brightness = 0.5
	return cfg
}

var errStream = errors.New("stream dropped")
