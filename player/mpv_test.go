package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type events struct {
	got chan string
}

func newEvents() *events {
	return &events{got: make(chan string, 64)}
}

func (e *events) OnLoad(d float64)        { e.got <- fmt.Sprintf("load %.0f", d) }
func (e *events) OnProgress(t, b float64) { e.got <- fmt.Sprintf("progress %.0f %.0f", t, b) }
func (e *events) OnBuffering(b bool)      { e.got <- fmt.Sprintf("buffering %t", b) }
func (e *events) OnError(err error)       { e.got <- "error " + err.Error() }
func (e *events) next() string {
	select {
	case s := <-e.got:
		return s
	case <-time.After(2 * time.Second):
		return "timeout"
	}
}

// fakeMPV speaks enough of the IPC protocol to drive an MPV.
type fakeMPV struct {
	path     string
	ln       net.Listener
	mu       sync.Mutex
	commands [][]interface{}
	observer net.Conn
	refuse   string
}

func startFake(t *testing.T) *fakeMPV {
	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	f := &fakeMPV{path: filepath.Join(dir, "s")}
	f.ln, err = net.Listen("unix", f.path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = f.ln.Close() })

	go func() {
		for {
			conn, err := f.ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f
}

func (f *fakeMPV) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req ipcRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		if req.Command[0] == "observe_property" {
			f.observer = conn
		}
		refuse := f.refuse
		f.mu.Unlock()

		// broadcast noise a real mpv sends to every client
		_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))

		reply := ipcMessage{RequestID: req.RequestID, Error: "success"}
		if refuse != "" {
			reply.Error = refuse
		}
		if req.Command[0] == "get_property" {
			reply.Data = 4242.0
		}
		line, _ := json.Marshal(reply)
		_, _ = conn.Write(append(line, '\n'))
	}
}

func (f *fakeMPV) observers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.commands {
		if c[0] == "observe_property" {
			n++
		}
	}
	return n
}

func (f *fakeMPV) last() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commands[len(f.commands)-1]
}

func (f *fakeMPV) push(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _ = f.observer.Write([]byte(line + "\n"))
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestMPV(t *testing.T) {
	Convey("Given an mpv listening on a socket", t, func() {
		fake := startFake(t)
		ev := newEvents()
		mpv := Dial(fake.path, Options{Title: "News\nHD"})

		So(mpv.Open("http://panel.example/live/u/p/7.m3u8", ev), ShouldBeNil)
		So(waitFor(func() bool { return fake.observers() == len(observed) }), ShouldBeTrue)

		Convey("Open sets the title and loads the file", func() {
			fake.mu.Lock()
			defer fake.mu.Unlock()
			So(fake.commands, ShouldContain, []interface{}{"set_property", "force-media-title", "News HD"})
			So(fake.commands, ShouldContain, []interface{}{"loadfile", "http://panel.example/live/u/p/7.m3u8", "replace"})
		})

		Convey("Commands use mpv's property names and scales", func() {
			So(mpv.SetVolume(0.5), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "volume", 50.0})

			So(mpv.SetVolume(3), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "volume", 100.0})

			So(mpv.SetMuted(true), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "mute", true})

			So(mpv.SetPaused(false), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "pause", false})

			So(mpv.SetRate(1.5), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "speed", 1.5})

			So(mpv.Seek(90), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"seek", 90.0, "absolute"})
		})

		Convey("Replies are matched by request id past broadcast events", func() {
			So(mpv.IsRunning(), ShouldBeTrue)
		})

		Convey("A refusal is returned without retrying", func() {
			fake.mu.Lock()
			fake.refuse = "property unavailable"
			before := len(fake.commands)
			fake.mu.Unlock()

			err := mpv.Seek(10)
			So(err, ShouldHaveSameTypeAs, &CommandError{})
			So(err.Error(), ShouldContainSubstring, "property unavailable")

			fake.mu.Lock()
			So(len(fake.commands)-before, ShouldEqual, 1)
			fake.mu.Unlock()
		})

		Convey("Observed properties become engine events", func() {
			fake.push(`{"event":"property-change","name":"duration","data":3600}`)
			fake.push(`{"event":"file-loaded"}`)
			So(ev.next(), ShouldEqual, "load 3600")

			fake.push(`{"event":"property-change","name":"time-pos","data":12}`)
			So(ev.next(), ShouldEqual, "progress 12 12")

			fake.push(`{"event":"property-change","name":"demuxer-cache-duration","data":30}`)
			So(ev.next(), ShouldEqual, "progress 12 42")

			fake.push(`{"event":"property-change","name":"paused-for-cache","data":true}`)
			So(ev.next(), ShouldEqual, "buffering true")

			fake.push(`{"event":"end-file","reason":"error","file_error":"loading failed"}`)
			So(ev.next(), ShouldEqual, "error playback failed: loading failed")
		})

		Convey("Close on a dialed player stops playback only", func() {
			So(mpv.Close(), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"stop"})
			So(mpv.Close(), ShouldBeNil)
		})

		Reset(func() {
			_ = mpv.Close()
		})
	})

	Convey("Given no socket", t, func() {
		mpv := Dial(filepath.Join(os.TempDir(), "xtplay-missing.sock"), Options{})

		Convey("Commands fail after retrying", func() {
			err := mpv.Seek(1)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed after 3 attempts")
		})
	})
}

func TestTranslator(t *testing.T) {
	Convey("Given a translator", t, func() {
		ev := newEvents()
		tr := &translator{events: ev}

		Convey("Progress waits for the file to load", func() {
			tr.handle(ipcMessage{Event: "property-change", Name: "time-pos", Data: 5.0})
			So(ev.got, ShouldBeEmpty)

			tr.handle(ipcMessage{Event: "file-loaded"})
			So(ev.next(), ShouldEqual, "load 0")
		})

		Convey("A duration known only after load is reported once", func() {
			tr.handle(ipcMessage{Event: "file-loaded"})
			So(ev.next(), ShouldEqual, "load 0")

			tr.handle(ipcMessage{Event: "property-change", Name: "duration", Data: 120.0})
			So(ev.next(), ShouldEqual, "load 120")

			tr.handle(ipcMessage{Event: "property-change", Name: "duration", Data: 121.0})
			So(ev.got, ShouldBeEmpty)
		})

		Convey("Live streams report nil numbers, which are ignored", func() {
			tr.handle(ipcMessage{Event: "file-loaded"})
			ev.next()
			tr.handle(ipcMessage{Event: "property-change", Name: "duration", Data: nil})
			So(ev.got, ShouldBeEmpty)
		})

		Convey("Buffering is reported on change only", func() {
			tr.handle(ipcMessage{Event: "property-change", Name: "paused-for-cache", Data: false})
			So(ev.got, ShouldBeEmpty)

			tr.handle(ipcMessage{Event: "property-change", Name: "paused-for-cache", Data: true})
			tr.handle(ipcMessage{Event: "property-change", Name: "paused-for-cache", Data: true})
			So(ev.next(), ShouldEqual, "buffering true")
			So(ev.got, ShouldBeEmpty)
		})

		Convey("End of file is only an error when mpv says so", func() {
			tr.handle(ipcMessage{Event: "end-file", Reason: "eof"})
			So(ev.got, ShouldBeEmpty)

			tr.handle(ipcMessage{Event: "end-file", Reason: "error"})
			So(ev.next(), ShouldEqual, "error playback failed: unknown error")
		})
	})
}

func TestArgs(t *testing.T) {
	Convey("Given spawn options", t, func() {
		mpv := New(Options{
			Title:     "Movie\tNight",
			UserAgent: "xtplay",
			Headers: map[string]string{
				"Referer": "http://example.com",
				"Cookie":  "a=1,b=2",
			},
		})
		mpv.socketPath = "/tmp/x.sock"

		Convey("They become mpv flags", func() {
			args := mpv.args()
			So(args, ShouldContain, "--input-ipc-server=/tmp/x.sock")
			So(args, ShouldContain, "--idle=yes")
			So(args, ShouldContain, "--title=Movie Night")
			So(args, ShouldContain, "--user-agent=xtplay")
			So(args, ShouldContain, "--http-header-fields=Cookie: a=1%2Cb=2,Referer: http://example.com")
		})

		Convey("The binary defaults to mpv", func() {
			So(mpv.opts.Binary, ShouldEqual, DefaultBinary)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("Media targets", t, func() {
		Convey("Flags and odd schemes are rejected", func() {
			for _, bad := range []string{"", "--script=x.lua", "file:///etc/passwd", "http://a\nb"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Stream schemes and paths pass", func() {
			for _, good := range []string{"https://h/x.m3u8", "rtmp://h/live", "udp://239.0.0.1:1234"} {
				got, err := sanitizeMediaTarget(good)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, good)
			}

			got, err := sanitizeMediaTarget(" ./videos/../a.mkv ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "a.mkv")
		})

		Convey("Stream credentials are redacted from logs", func() {
			So(redact("http://panel:8080/live/user/pass/1.ts"), ShouldEqual, "http://panel:8080/…")
			So(redact("a.mkv"), ShouldEqual, "a.mkv")
		})
	})
}
