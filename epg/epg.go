// Package epg holds electronic program guide entries and picks the program
// airing now and the one after it.
package epg

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/xtream"
	"golang.org/x/exp/slices"
)

// Program is one guide entry. Stop is exclusive.
type Program struct {
	Title       string
	Description mo.Option[string]
	Start       time.Time
	Stop        time.Time
}

// Airing reports whether the program covers now.
func (p Program) Airing(now time.Time) bool {
	return !now.Before(p.Start) && now.Before(p.Stop)
}

// Progress returns the elapsed fraction of the program at now, in [0,1].
func (p Program) Progress(now time.Time) float64 {
	total := p.Stop.Sub(p.Start)
	if total <= 0 {
		return 0
	}
	return lo.Clamp(float64(now.Sub(p.Start))/float64(total), 0, 1)
}

// Current returns the program with start <= now < stop.
func Current(programs []Program, now time.Time) mo.Option[Program] {
	for _, p := range programs {
		if p.Airing(now) {
			return mo.Some(p)
		}
	}
	return mo.None[Program]()
}

// Next returns the program with the earliest start after now.
func Next(programs []Program, now time.Time) mo.Option[Program] {
	var (
		next  Program
		found bool
	)
	for _, p := range programs {
		if !p.Start.After(now) {
			continue
		}
		if !found || p.Start.Before(next.Start) {
			next, found = p, true
		}
	}
	if !found {
		return mo.None[Program]()
	}
	return mo.Some(next)
}

// FromXtream converts panel listings, decoding base64 text and parsing the
// epoch timestamps. Entries without a valid time range are dropped. The result
// is sorted by start time.
func FromXtream(entries []xtream.EPGEntry) []Program {
	programs := make([]Program, 0, len(entries))
	for _, e := range entries {
		start, ok := parseEpoch(e.StartTimestamp.String())
		if !ok {
			continue
		}
		stop, ok := parseEpoch(e.StopTimestamp.String())
		if !ok || !stop.After(start) {
			continue
		}

		p := Program{
			Title:       decodeText(e.Title),
			Description: mo.None[string](),
			Start:       start,
			Stop:        stop,
		}
		if d := decodeText(e.Description); d != "" {
			p.Description = mo.Some(d)
		}
		programs = append(programs, p)
	}

	slices.SortStableFunc(programs, func(a, b Program) int {
		return a.Start.Compare(b.Start)
	})
	return programs
}

func parseEpoch(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	return time.Unix(n, 0), true
}

// decodeText returns s base64-decoded when it decodes to printable UTF-8,
// and s itself otherwise. Some panels send plain text.
func decodeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !utf8.Valid(b) {
		return s
	}
	for _, r := range string(b) {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return s
		}
	}
	return strings.TrimSpace(string(b))
}

// Fetcher is the panel call the Source needs.
type Fetcher interface {
	EPG(ctx context.Context, streamID, limit int) ([]xtream.EPGEntry, error)
}

// Source loads guide entries for live channels from a panel.
type Source struct {
	Fetcher Fetcher
	Limit   int
}

// EPG returns the sorted programs of a live channel.
func (s Source) EPG(ctx context.Context, streamID int) ([]Program, error) {
	entries, err := s.Fetcher.EPG(ctx, streamID, s.Limit)
	if err != nil {
		return nil, err
	}
	return FromXtream(entries), nil
}
