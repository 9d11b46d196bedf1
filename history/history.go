// Package history keeps the list of recently watched channels.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/where"
)

// DefaultMaxRecent is used when history.max_recent is unset or not positive.
const DefaultMaxRecent = 20

// Entry is one recently watched channel.
type Entry struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	WatchedAt time.Time `json:"watched_at"`
}

var (
	mu     sync.Mutex
	cacher = sync.OnceValue(func() *gache.Cache[[]Entry] {
		return gache.New[[]Entry](&gache.Options{
			Path:       where.Recent(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

// Get returns the recent channels, newest first.
func Get() ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()
	return load()
}

// Last returns the most recently watched channel.
func Last() (Entry, bool, error) {
	entries, err := Get()
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

// Record moves the channel to the front of the list, dropping older entries
// beyond the configured cap.
func Record(id int, name string, at time.Time) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := load()
	if err != nil {
		return err
	}

	updated := make([]Entry, 0, len(entries)+1)
	updated = append(updated, Entry{ID: id, Name: name, WatchedAt: at})
	for _, e := range entries {
		if e.ID != id {
			updated = append(updated, e)
		}
	}

	if limit := maxRecent(); len(updated) > limit {
		updated = updated[:limit]
	}
	return cacher().Set(updated)
}

// Remove forgets one channel.
func Remove(id int) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := load()
	if err != nil {
		return err
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return cacher().Set(kept)
}

// Clear forgets every channel.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()
	return cacher().Set([]Entry{})
}

// Recorder stores recently watched channels for playback sessions.
type Recorder struct{}

// RecordRecent implements the session recorder.
func (Recorder) RecordRecent(id int, name string, at time.Time) error {
	if !viper.GetBool(key.HistorySaveOnPlay) {
		return nil
	}
	return Record(id, name, at)
}

func load() ([]Entry, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []Entry{}, nil
	}
	return cached, nil
}

func maxRecent() int {
	if n := viper.GetInt(key.HistoryMaxRecent); n > 0 {
		return n
	}
	return DefaultMaxRecent
}
