package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV drives one mpv process over JSON-IPC and implements session.Engine.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	listener   *EventListener
	closing    atomic.Bool
	nextID     atomic.Int64
	mu         sync.Mutex // serializes IPC commands
}

// New creates an engine that spawns mpv on the first Open.
func New(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	return &MPV{
		opts:   opts,
		exited: make(chan struct{}),
	}
}

// Dial creates an engine for an mpv that is already running with
// --input-ipc-server=socketPath. Close stops playback but leaves the process alone.
func Dial(socketPath string, opts Options) *MPV {
	m := New(opts)
	m.socketPath = socketPath
	return m
}

// Open loads url, spawning mpv if needed. Events are delivered from a
// background goroutine until the next Open or Close.
func (m *MPV) Open(rawURL string, events session.Events) error {
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.socketPath == "" || (m.cmd != nil && !m.alive()) {
		if err := m.spawn(); err != nil {
			return err
		}
		go m.watch(m.exited, events)
	}

	if err := m.attach(events); err != nil {
		return err
	}

	if title := sanitizeTitle(m.opts.Title); title != "" {
		if err := m.set("force-media-title", title); err != nil {
			log.Warnf("mpv: set title: %s", err)
		}
	}

	if _, err := m.sendCommand("loadfile", safeURL, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", redact(safeURL), err)
	}

	log.Infof("mpv: loaded %s", redact(safeURL))
	return nil
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

func (m *MPV) SetPaused(paused bool) error {
	return m.set("pause", paused)
}

func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

// SetVolume takes a 0..1 level; mpv uses a 0..100 scale.
func (m *MPV) SetVolume(volume float64) error {
	return m.set("volume", lo.Clamp(volume, 0, 1)*100)
}

func (m *MPV) SetRate(rate float64) error {
	return m.set("speed", rate)
}

// Close quits mpv, killing it if it does not leave in time.
// A dialed player only stops playback.
func (m *MPV) Close() error {
	if !m.closing.CompareAndSwap(false, true) {
		return nil
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	if m.socketPath == "" {
		return nil
	}

	if m.cmd == nil {
		_, err := m.sendCommand("stop")
		return err
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		log.Warnf("mpv: did not quit in %s, killing", quitTimeout)
		_ = terminate(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Wait returns a channel that is closed when the spawned mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" || (m.cmd != nil && !m.alive()) {
		return false
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// args are the command line flags of a spawned mpv. The media is loaded over IPC
// once the event listener is attached, so mpv starts idle.
func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=no",
	}

	if title := sanitizeTitle(m.opts.Title); title != "" {
		args = append(args, fmt.Sprintf("--title=%s", title))
	}

	if m.opts.UserAgent != "" {
		args = append(args, fmt.Sprintf("--user-agent=%s", m.opts.UserAgent))
	}

	if fields := headerFields(m.opts.Headers); fields != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", fields))
	}

	return args
}

func (m *MPV) spawn() error {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", suffix))

	m.cmd = exec.Command(m.opts.Binary, m.args()...)
	m.cmd.SysProcAttr = detached()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.opts.Binary, err)
	}

	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = terminate(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	log.Debugf("mpv: started pid %d on %s", cmd.Process.Pid, m.socketPath)
	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		if !m.alive() {
			return fmt.Errorf("mpv exited before socket was ready")
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// attach replaces the event listener so events reach the latest receiver.
func (m *MPV) attach(events session.Events) error {
	if m.listener != nil {
		m.listener.Stop()
	}

	t := &translator{events: events}
	m.listener = NewEventListener(m.socketPath, t.handle)
	return m.listener.Start()
}

// watch reports an unexpected exit of the process as an engine error.
func (m *MPV) watch(exited <-chan struct{}, events session.Events) {
	<-exited
	if !m.closing.Load() {
		log.Warnf("mpv: process exited during playback")
		events.OnError(ErrExited)
	}
}

func (m *MPV) alive() bool {
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// headerFields renders headers in mpv's comma separated form, sorted for stable output.
func headerFields(headers map[string]string) string {
	keys := lo.Keys(headers)
	sort.Strings(keys)

	fields := lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s: %s", k, strings.ReplaceAll(headers[k], ",", "%2C"))
	})
	return strings.Join(fields, ",")
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// mpv would read it as a flag
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "rtmp", "rtsp", "udp", "rtp":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle flattens the title to one line.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}

// redact hides the credentials Xtream puts in stream paths.
func redact(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Scheme + "://" + u.Host + "/…"
}
