package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/samber/lo"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/session"
)

// observed are the properties a listener subscribes to.
// mpv only delivers observations on the connection that registered them.
var observed = []string{
	"duration",
	"time-pos",
	"demuxer-cache-duration",
	"paused-for-cache",
}

// EventListener holds a persistent IPC connection and hands every event mpv
// writes on it to a handler, from its own goroutine.
type EventListener struct {
	socketPath string
	handler    func(ipcMessage)
	conn       net.Conn
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, handler func(ipcMessage)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		handler:    handler,
	}
}

// Start connects, registers the observers and begins the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.DialTimeout("unix", el.socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		err := writeRequest(conn, ipcRequest{Command: []interface{}{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(conn)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	el.listening = false
	_ = el.conn.Close()
}

func (el *EventListener) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, readBufSize), maxLineSize)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		// replies to our observe_property commands
		if msg.Event == "" {
			continue
		}
		el.handler(msg)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("mpv event listener: %s", err)
	}
}

// translator turns mpv events into session engine events.
// It is only touched from the listener goroutine.
type translator struct {
	events session.Events

	duration  float64
	position  float64
	cache     float64
	loaded    bool
	buffering bool
}

func (t *translator) handle(msg ipcMessage) {
	switch msg.Event {
	case "property-change":
		t.property(msg.Name, msg.Data)
	case "start-file":
		t.loaded = false
		t.position, t.cache = 0, 0
	case "file-loaded":
		t.loaded = true
		t.events.OnLoad(t.duration)
	case "end-file":
		if msg.Reason != "error" {
			return
		}
		reason := lo.Ternary(msg.FileError != "", msg.FileError, "unknown error")
		t.events.OnError(fmt.Errorf("%w: %s", ErrPlayback, reason))
	}
}

func (t *translator) property(name string, data interface{}) {
	if name == "paused-for-cache" {
		buffering, ok := data.(bool)
		if ok && buffering != t.buffering {
			t.buffering = buffering
			t.events.OnBuffering(buffering)
		}
		return
	}

	// live streams report nil for most numeric properties
	value, ok := data.(float64)
	if !ok {
		return
	}

	switch name {
	case "duration":
		known := t.duration > 0
		t.duration = value
		if t.loaded && !known && value > 0 {
			t.events.OnLoad(value)
		}
	case "time-pos":
		t.position = value
		t.progress()
	case "demuxer-cache-duration":
		t.cache = value
		t.progress()
	}
}

// progress reports the position and the end of the buffered range.
func (t *translator) progress() {
	if !t.loaded {
		return
	}
	t.events.OnProgress(t.position, t.position+t.cache)
}
