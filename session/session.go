// Package session ties the transport, overlay, gesture and orientation state
// of one playback together and drives the engine.
//
// A Session is single-threaded: every method must run on the same queue
// (see Loop). Engine events, timer fires and guide results are posted to that
// queue through Deps.Post.
package session

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/epg"
	"github.com/xtplay/xtplay/gesture"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/orientation"
	"github.com/xtplay/xtplay/overlay"
	"github.com/xtplay/xtplay/transport"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session: closed")
	// ErrMounted is returned when Mount is called twice.
	ErrMounted = errors.New("session: already mounted")
	// ErrNotFailed is returned by Retry outside of the error state.
	ErrNotFailed = errors.New("session: nothing to retry")
)

// Playback rate bounds for on-demand media.
const (
	MinRate = 0.25
	MaxRate = 4.0
)

// Session is one playback of one target.
type Session struct {
	id     string
	target Target
	cfg    Config
	deps   Deps

	transport  *transport.State
	overlay    *overlay.Controller
	indicator  *overlay.Indicator
	orient     *orientation.Coordinator
	classifier *gesture.Classifier

	lifecycle Lifecycle
	lastErr   error
	rate      float64
	geometry  gesture.Geometry

	touch          *gesture.Session
	touchX, touchY float64

	programs []epg.Program
	ctx      context.Context
	cancel   context.CancelFunc
	resumeAt mo.Option[float64]

	mounted bool
	closed  bool
}

// New validates deps and returns an unmounted session.
func New(target Target, cfg Config, deps Deps) (*Session, error) {
	switch {
	case deps.Engine == nil:
		return nil, errors.New("session: engine is required")
	case deps.Display == nil:
		return nil, errors.New("session: display is required")
	case deps.Clock == nil:
		return nil, errors.New("session: clock is required")
	case target.URL == "":
		return nil, errors.New("session: target has no url")
	}
	if cfg.SkipStep <= 0 {
		cfg.SkipStep = 10
	}

	return &Session{
		id:         uuid.NewString(),
		target:     target,
		cfg:        cfg,
		deps:       deps,
		transport:  transport.New(cfg.Transport),
		overlay:    overlay.New(deps.Clock, cfg.Timing),
		indicator:  overlay.NewIndicator(cfg.Timing),
		orient:     orientation.New(deps.Display, cfg.PinLandscape),
		classifier: gesture.New(cfg.Gesture),
		rate:       1,
		resumeAt:   mo.None[float64](),
	}, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Target returns what the session plays.
func (s *Session) Target() Target {
	return s.target
}

// Lifecycle returns the current state.
func (s *Session) Lifecycle() Lifecycle {
	return s.lifecycle
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	return s.closed
}

// Err returns the engine failure behind the error state, nil otherwise.
func (s *Session) Err() error {
	if s.lifecycle != Error {
		return nil
	}
	return s.lastErr
}

// Mount shows the player, records the channel, starts the guide lookup and
// opens the stream. The guide lookup is abandoned when ctx is cancelled or the
// session closes.
func (s *Session) Mount(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if s.mounted {
		return ErrMounted
	}
	s.mounted = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	log.Infof("session %s: mounting %s", s.id, s.target)
	s.orient.Mount()
	s.deps.Display.SetBrightness(s.transport.Brightness())
	s.overlay.Show()

	s.recordRecent()
	s.loadGuide()
	s.open()
	return nil
}

// Retry reopens the stream after an engine error. Position and duration are
// kept; the channel is not recorded again and the guide is not reloaded.
func (s *Session) Retry() error {
	if s.closed {
		return ErrClosed
	}
	if s.lifecycle != Error {
		return ErrNotFailed
	}

	log.Infof("session %s: retrying %s", s.id, s.target)
	if t := s.transport.CurrentTime(); t > 0 && s.target.Kind == VideoOnDemand {
		s.resumeAt = mo.Some(t)
	}
	s.transport.ClearError()
	s.transport.SetPaused(false)
	s.lastErr = nil
	s.open()
	return nil
}

// Close tears the session down: timers, guide lookup, orientation lock and
// engine. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.lifecycle = Closing
	log.Infof("session %s: closing %s", s.id, s.target)

	if s.cancel != nil {
		s.cancel()
	}
	if s.touch != nil {
		s.touch.Cancel()
		s.touch = nil
	}
	s.overlay.Stop()
	s.indicator.Clear()
	s.orient.Unmount()

	if err := s.deps.Engine.Close(); err != nil {
		log.Warnf("session: closing engine: %s", err)
	}
}

// Back leaves the player. It is the exit choice of the error state as well.
func (s *Session) Back() {
	s.Close()
}

func (s *Session) open() {
	s.lifecycle = Initializing
	if err := s.deps.Engine.Open(s.target.URL, queued{s}); err != nil {
		s.OnError(err)
	}
}

func (s *Session) recordRecent() {
	if s.deps.Recorder == nil || s.target.Kind != Live {
		return
	}
	id, ok := s.target.StreamID.Get()
	if !ok {
		return
	}
	if err := s.deps.Recorder.RecordRecent(id, s.target.Title, s.deps.Clock.Now()); err != nil {
		log.Warnf("session: recording recent channel: %s", err)
	}
}

func (s *Session) loadGuide() {
	if s.deps.EPG == nil || s.target.Kind != Live {
		return
	}
	id, ok := s.target.StreamID.Get()
	if !ok {
		return
	}

	ctx := s.ctx
	fetch := func() ([]epg.Program, error) {
		return s.deps.EPG.EPG(ctx, id)
	}
	deliver := func(programs []epg.Program, err error) {
		if s.closed || ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Warnf("session: guide for stream %d: %s", id, err)
			return
		}
		s.programs = programs
	}

	if s.deps.Post == nil {
		deliver(fetch())
		return
	}
	post := s.deps.Post
	go func() {
		programs, err := fetch()
		post(func() { deliver(programs, err) })
	}()
}

// Engine events.

// OnLoad records the duration and leaves Initializing. A late load after a
// failure is ignored so the error stays until Retry.
func (s *Session) OnLoad(duration float64) {
	if s.closed || s.lifecycle == Error {
		return
	}
	s.transport.OnEngineLoaded(duration)
	if s.lifecycle != Initializing {
		return
	}
	s.lifecycle = Ready

	if at, ok := s.resumeAt.Get(); ok {
		s.resumeAt = mo.None[float64]()
		s.seekEngine(s.transport.SeekTo(at))
	}
	if s.rate != 1 {
		s.call("rate", s.deps.Engine.SetRate(s.rate))
	}
	log.Debugf("session: loaded, duration %.1fs", s.transport.Duration())
}

// OnProgress updates position and buffer health. A staged seek gesture is
// unaffected.
func (s *Session) OnProgress(currentTime, buffered float64) {
	if s.closed || s.lifecycle == Error {
		return
	}
	s.transport.OnEngineProgress(currentTime, buffered)
	if s.lifecycle == Ready || s.lifecycle == Initializing {
		s.lifecycle = s.playState()
	}
}

// OnBuffering records engine stalls.
func (s *Session) OnBuffering(buffering bool) {
	if s.closed {
		return
	}
	s.transport.OnEngineBuffering(buffering)
}

// OnError moves the session into the error state. It is never retried
// automatically.
func (s *Session) OnError(err error) {
	if s.closed {
		return
	}
	if err == nil {
		err = errors.New("playback failed")
	}
	log.Errorf("session %s: engine error on %s: %s", s.id, s.target, err)
	s.transport.OnEngineError(err)
	s.lastErr = err
	s.lifecycle = Error
	s.overlay.Show()
}

// Commands.

// TogglePause flips pause and forwards it to the engine.
func (s *Session) TogglePause() {
	if !s.controllable() {
		return
	}
	paused := s.transport.TogglePause()
	s.call("pause", s.deps.Engine.SetPaused(paused))
	if s.lifecycle != Initializing {
		s.lifecycle = s.playState()
	}
	s.overlay.Interact()
}

// ToggleMute flips mute and forwards it to the engine.
func (s *Session) ToggleMute() {
	if !s.controllable() {
		return
	}
	muted := s.transport.ToggleMute()
	s.call("mute", s.deps.Engine.SetMuted(muted))
	s.overlay.Interact()
}

// SkipBy moves the position by seconds. It is ignored on content that cannot seek.
func (s *Session) SkipBy(seconds float64) {
	if !s.controllable() || !s.seekable() {
		return
	}
	s.seekEngine(s.transport.SkipBy(seconds))
	s.overlay.Interact()
}

// SkipForward and SkipBackward move by the configured step.
func (s *Session) SkipForward()  { s.SkipBy(s.cfg.SkipStep) }
func (s *Session) SkipBackward() { s.SkipBy(-s.cfg.SkipStep) }

// SeekTo moves to an absolute position. It is ignored on content that cannot seek.
func (s *Session) SeekTo(seconds float64) {
	if !s.controllable() || !s.seekable() {
		return
	}
	s.seekEngine(s.transport.SeekTo(seconds))
	s.overlay.Interact()
}

// SetVolume sets the volume and forwards it to the engine.
func (s *Session) SetVolume(volume float64) {
	if !s.controllable() {
		return
	}
	s.applyVolume(volume)
	s.overlay.Interact()
}

// SetBrightness sets the screen brightness.
func (s *Session) SetBrightness(level float64) {
	if !s.controllable() {
		return
	}
	s.applyBrightness(level)
	s.overlay.Interact()
}

// SetRate changes the playback speed of on-demand media.
func (s *Session) SetRate(rate float64) {
	if !s.controllable() || s.target.Kind != VideoOnDemand || math.IsNaN(rate) {
		return
	}
	s.rate = lo.Clamp(rate, MinRate, MaxRate)
	s.call("rate", s.deps.Engine.SetRate(s.rate))
	s.overlay.Interact()
}

// OpenPanel opens a panel over the video. The quality panel is only available
// when enabled in the configuration.
func (s *Session) OpenPanel(p Panel) bool {
	if s.closed || (p == Quality && !s.cfg.QualityMenu) {
		return false
	}
	s.overlay.Open(p.blocker())
	return true
}

// ClosePanel closes a panel.
func (s *Session) ClosePanel(p Panel) {
	if s.closed {
		return
	}
	s.overlay.Close(p.blocker())
}

// TogglePanel opens p when closed and closes it when open.
func (s *Session) TogglePanel(p Panel) {
	if s.overlay.IsOpen(p.blocker()) {
		s.ClosePanel(p)
		return
	}
	s.OpenPanel(p)
}

// ToggleOverlay shows or hides the controls, as a tap does.
func (s *Session) ToggleOverlay() {
	if s.closed {
		return
	}
	s.overlay.Toggle()
}

// ToggleFullscreen flips the layout when the platform allows it.
func (s *Session) ToggleFullscreen() bool {
	if s.closed {
		return false
	}
	s.overlay.Interact()
	return s.orient.Toggle()
}

// Resize reports the surface size in pixels.
func (s *Session) Resize(width, height float64) {
	if s.closed {
		return
	}
	s.geometry = gesture.Geometry{Width: width, Height: height}
	s.orient.OnDimensions(width, height)
}

// Touch input.

// TouchStart begins a gesture at (x, y).
func (s *Session) TouchStart(x, y float64) {
	if s.closed {
		return
	}
	if s.touch != nil {
		s.TouchCancel()
	}

	snap := s.transport.Snapshot()
	s.touchX, s.touchY = x, y
	s.touch = s.classifier.Begin(x, s.geometry, s.content(), gesture.Anchor{
		Volume:     snap.Volume,
		Brightness: snap.Brightness,
		Time:       snap.CurrentTime,
		Duration:   snap.Duration,
	})
}

// TouchMove feeds the pointer position of the current gesture.
func (s *Session) TouchMove(x, y float64) {
	if s.closed || s.touch == nil {
		return
	}

	wasLocked := s.touch.Locked()
	change, ok := s.touch.Move(gesture.Sample{DX: x - s.touchX, DY: y - s.touchY, X: x})
	if !ok {
		return
	}
	if !wasLocked {
		s.overlay.Open(overlay.Gesture)
		log.Debugf("session: gesture locked as %s", change.Kind)
	}

	switch change.Kind {
	case gesture.Volume:
		s.applyVolume(change.Value)
	case gesture.Brightness:
		s.applyBrightness(change.Value)
	}
	s.indicator.Flash(change.Kind, change.Value, s.deps.Clock.Now())
}

// TouchEnd releases the current gesture. A seek is committed, a tap toggles
// the controls and a drag that never locked a kind shows them.
func (s *Session) TouchEnd() {
	if s.closed || s.touch == nil {
		return
	}
	g := s.touch
	s.touch = nil

	release := g.End()
	if release.Tap {
		s.overlay.Toggle()
		return
	}
	s.overlay.Close(overlay.Gesture)
	if release.Kind == gesture.None {
		s.overlay.Show()
		return
	}

	if target, ok := release.Commit.Get(); ok && s.controllable() {
		s.seekEngine(s.transport.SeekTo(target))
	}
}

// TouchCancel abandons the current gesture without committing it.
func (s *Session) TouchCancel() {
	if s.touch == nil {
		return
	}
	s.touch.Cancel()
	s.touch = nil
	if !s.closed {
		s.overlay.Close(overlay.Gesture)
	}
}

func (s *Session) applyVolume(volume float64) {
	wasMuted := s.transport.Muted()
	v := s.transport.SetVolume(volume)
	s.call("volume", s.deps.Engine.SetVolume(v))
	if wasMuted && !s.transport.Muted() {
		s.call("mute", s.deps.Engine.SetMuted(false))
	}
}

func (s *Session) applyBrightness(level float64) {
	s.deps.Display.SetBrightness(s.transport.SetBrightness(level))
}

func (s *Session) seekEngine(t float64) {
	s.call("seek", s.deps.Engine.Seek(t))
}

func (s *Session) call(op string, err error) {
	if err != nil {
		log.Warnf("session: engine %s: %s", op, err)
	}
}

// controllable reports whether transport commands apply. They are ignored
// while failed or closed.
func (s *Session) controllable() bool {
	return !s.closed && s.lifecycle != Error
}

func (s *Session) seekable() bool {
	return s.content().Seekable()
}

func (s *Session) content() gesture.Content {
	live := s.target.Kind == Live
	return gesture.Content{Live: live, DVR: live && s.target.DVR && s.cfg.DVRSeek}
}

func (s *Session) playState() Lifecycle {
	if s.transport.Paused() {
		return Paused
	}
	return Playing
}

// queued forwards engine events onto the session queue.
type queued struct {
	s *Session
}

func (q queued) post(f func()) {
	if q.s.deps.Post == nil {
		f()
		return
	}
	q.s.deps.Post(f)
}

func (q queued) OnLoad(duration float64) {
	q.post(func() { q.s.OnLoad(duration) })
}

func (q queued) OnProgress(currentTime, buffered float64) {
	q.post(func() { q.s.OnProgress(currentTime, buffered) })
}

func (q queued) OnBuffering(buffering bool) {
	q.post(func() { q.s.OnBuffering(buffering) })
}

func (q queued) OnError(err error) {
	q.post(func() { q.s.OnError(err) })
}

// now is the session clock, used by View.
func (s *Session) now() time.Time {
	return s.deps.Clock.Now()
}
