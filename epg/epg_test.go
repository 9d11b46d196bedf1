package epg

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/xtream"
)

var base = time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

func program(title string, start, stop time.Duration) Program {
	return Program{Title: title, Start: base.Add(start), Stop: base.Add(stop)}
}

func TestCurrentAndNext(t *testing.T) {
	Convey("Given a schedule", t, func() {
		programs := []Program{
			program("late", 2*time.Hour, 3*time.Hour),
			program("evening", 0, time.Hour),
			program("night", time.Hour, 2*time.Hour),
		}

		Convey("At 20:30 evening is on and night is next", func() {
			now := base.Add(30 * time.Minute)
			So(Current(programs, now).MustGet().Title, ShouldEqual, "evening")
			So(Next(programs, now).MustGet().Title, ShouldEqual, "night")
		})

		Convey("The start instant belongs to the program, the stop instant does not", func() {
			now := base.Add(time.Hour)
			So(Current(programs, now).MustGet().Title, ShouldEqual, "night")
			So(Next(programs, now).MustGet().Title, ShouldEqual, "late")
		})

		Convey("After the last program nothing is current or next", func() {
			now := base.Add(4 * time.Hour)
			So(Current(programs, now).IsPresent(), ShouldBeFalse)
			So(Next(programs, now).IsPresent(), ShouldBeFalse)
		})

		Convey("Before the first program only next is known", func() {
			now := base.Add(-time.Minute)
			So(Current(programs, now).IsPresent(), ShouldBeFalse)
			So(Next(programs, now).MustGet().Title, ShouldEqual, "evening")
		})

		Convey("Progress is the elapsed fraction", func() {
			p := programs[1]
			So(p.Progress(base.Add(15*time.Minute)), ShouldEqual, 0.25)
			So(p.Progress(base.Add(-time.Hour)), ShouldEqual, 0)
			So(p.Progress(base.Add(5*time.Hour)), ShouldEqual, 1)
		})
	})
}

func epoch(d time.Duration) xtream.FlexString {
	return xtream.FlexString(strconv.FormatInt(base.Add(d).Unix(), 10))
}

func TestFromXtream(t *testing.T) {
	Convey("Given panel listings", t, func() {
		encode := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
		entries := []xtream.EPGEntry{
			{Title: encode("Late Show"), StartTimestamp: epoch(time.Hour), StopTimestamp: epoch(2 * time.Hour)},
			{Title: encode("Evening News"), Description: encode("Headlines"), StartTimestamp: epoch(0), StopTimestamp: epoch(time.Hour)},
			{Title: "Broken", StartTimestamp: "", StopTimestamp: epoch(time.Hour)},
			{Title: "Backwards", StartTimestamp: epoch(time.Hour), StopTimestamp: epoch(0)},
			{Title: "Plain title", StartTimestamp: epoch(3 * time.Hour), StopTimestamp: epoch(4 * time.Hour)},
		}

		programs := FromXtream(entries)

		Convey("Invalid entries are dropped and the rest sorted", func() {
			So(programs, ShouldHaveLength, 3)
			So(programs[0].Title, ShouldEqual, "Evening News")
			So(programs[1].Title, ShouldEqual, "Late Show")
			So(programs[2].Title, ShouldEqual, "Plain title")
		})

		Convey("Descriptions are optional", func() {
			So(programs[0].Description.MustGet(), ShouldEqual, "Headlines")
			So(programs[1].Description.IsPresent(), ShouldBeFalse)
		})

		Convey("Timestamps are unix seconds", func() {
			So(programs[0].Start.Equal(base), ShouldBeTrue)
			So(programs[0].Stop.Equal(base.Add(time.Hour)), ShouldBeTrue)
		})
	})
}

type fetcher struct {
	entries []xtream.EPGEntry
	err     error
	limit   int
}

func (f *fetcher) EPG(_ context.Context, _ int, limit int) ([]xtream.EPGEntry, error) {
	f.limit = limit
	return f.entries, f.err
}

func TestSource(t *testing.T) {
	Convey("Source converts fetched entries", t, func() {
		f := &fetcher{entries: []xtream.EPGEntry{{Title: "News", StartTimestamp: epoch(0), StopTimestamp: epoch(time.Hour)}}}
		programs, err := Source{Fetcher: f, Limit: 6}.EPG(context.Background(), 42)
		So(err, ShouldBeNil)
		So(programs, ShouldHaveLength, 1)
		So(f.limit, ShouldEqual, 6)
	})

	Convey("Source passes fetch errors through", t, func() {
		f := &fetcher{err: errors.New("timeout")}
		_, err := Source{Fetcher: f}.EPG(context.Background(), 42)
		So(err, ShouldNotBeNil)
	})
}
