// Package m3u reads and writes extended M3U playlists, the secondary channel
// source for panels that only hand out a playlist link.
package m3u

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/xtplay/xtplay/filesystem"
)

// ErrNotPlaylist is returned when the input does not start with #EXTM3U.
var ErrNotPlaylist = errors.New("m3u: missing #EXTM3U header")

// Channel is one playlist entry.
type Channel struct {
	Name  string
	TvgID string
	Logo  string
	Group string
	URL   string
	// Catchup is set when the entry advertises an archive (catchup or tvg-rec attributes).
	Catchup bool
}

var attrRE = regexp.MustCompile(`([\w-]+)=(?:"([^"]*)"|([^\s,"]+))`)

// Parse reads a playlist. Entries without a URL line are skipped.
func Parse(r io.Reader) ([]Channel, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		channels []Channel
		pending  *Channel
		header   bool
	)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}

		if !header {
			if !strings.HasPrefix(line, "#EXTM3U") {
				return nil, ErrNotPlaylist
			}
			header = true
			continue
		}

		switch {
		case strings.HasPrefix(line, "#EXTINF:"):
			ch := parseExtinf(line)
			pending = &ch
		case strings.HasPrefix(line, "#EXTGRP:"):
			if pending != nil && pending.Group == "" {
				pending.Group = strings.TrimSpace(strings.TrimPrefix(line, "#EXTGRP:"))
			}
		case strings.HasPrefix(line, "#"):
		default:
			ch := Channel{URL: line}
			if pending != nil {
				ch = *pending
				ch.URL = line
			}
			if ch.Name == "" {
				ch.Name = line
			}
			channels = append(channels, ch)
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("m3u: read: %w", err)
	}
	if !header {
		return nil, ErrNotPlaylist
	}
	return channels, nil
}

// Open parses a playlist file.
func Open(path string) ([]Channel, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Fetch downloads and parses a playlist.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("m3u: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("m3u: fetch: unexpected status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Write renders channels as a playlist.
func Write(w io.Writer, channels []Channel) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, ch := range channels {
		fmt.Fprintf(buf, `#EXTINF:-1 tvg-id="%s" tvg-logo="%s" group-title="%s"`, ch.TvgID, ch.Logo, ch.Group)
		if ch.Catchup {
			buf.WriteString(` catchup="default"`)
		}
		fmt.Fprintf(buf, ",%s\n%s\n", ch.Name, ch.URL)
	}
	_, err := io.Copy(w, buf)
	return err
}

func parseExtinf(line string) Channel {
	body := strings.TrimPrefix(line, "#EXTINF:")
	attrs, name := splitTitle(body)

	values := make(map[string]string)
	for _, m := range attrRE.FindAllStringSubmatch(attrs, -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		values[strings.ToLower(m[1])] = v
	}

	if name == "" {
		name = values["tvg-name"]
	}
	_, catchup := values["catchup"]
	if rec := values["tvg-rec"]; rec != "" && rec != "0" {
		catchup = true
	}

	return Channel{
		Name:    name,
		TvgID:   values["tvg-id"],
		Logo:    values["tvg-logo"],
		Group:   values["group-title"],
		Catchup: catchup,
	}
}

// splitTitle separates the attribute section from the display name at the
// first comma outside of quotes.
func splitTitle(s string) (attrs, name string) {
	quoted := false
	for i, r := range s {
		switch r {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				return s[:i], strings.TrimSpace(s[i+1:])
			}
		}
	}
	return s, ""
}
