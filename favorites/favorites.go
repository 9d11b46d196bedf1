// Package favorites stores the user's favorite channels, movies and series.
package favorites

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/where"
	"golang.org/x/exp/slices"
)

// Kind is the catalog section a favorite belongs to.
type Kind string

const (
	Live   Kind = "live"
	Movie  Kind = "movie"
	Series Kind = "series"
)

// ParseKind accepts the section names used on the command line.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "channel", "channels":
		return Live, nil
	case "movie", "movies", "vod":
		return Movie, nil
	case "series", "show", "shows":
		return Series, nil
	default:
		return "", fmt.Errorf("unknown favorite kind %q", s)
	}
}

// Favorite is one saved item.
type Favorite struct {
	ID      int       `json:"id"`
	Kind    Kind      `json:"kind"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

func (f Favorite) key() string {
	return fmt.Sprintf("%s:%d", f.Kind, f.ID)
}

var (
	mu     sync.Mutex
	cacher = sync.OnceValue(func() *gache.Cache[map[string]Favorite] {
		return gache.New[map[string]Favorite](&gache.Options{
			Path:       where.Favorites(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

// Add saves a favorite. Adding an existing one updates its name.
func Add(f Favorite) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}
	if existing, ok := saved[f.key()]; ok && f.AddedAt.IsZero() {
		f.AddedAt = existing.AddedAt
	}
	if f.AddedAt.IsZero() {
		f.AddedAt = time.Now()
	}
	saved[f.key()] = f
	return cacher().Set(saved)
}

// Remove deletes a favorite. It reports whether it existed.
func Remove(kind Kind, id int) (bool, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return false, err
	}
	k := Favorite{Kind: kind, ID: id}.key()
	if _, ok := saved[k]; !ok {
		return false, nil
	}
	delete(saved, k)
	return true, cacher().Set(saved)
}

// Has reports whether the item is a favorite.
func Has(kind Kind, id int) (bool, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return false, err
	}
	_, ok := saved[Favorite{Kind: kind, ID: id}.key()]
	return ok, nil
}

// List returns the favorites of kind, or all of them when kind is empty,
// ordered by name.
func List(kind Kind) ([]Favorite, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return nil, err
	}

	list := make([]Favorite, 0, len(saved))
	for _, f := range saved {
		if kind == "" || f.Kind == kind {
			list = append(list, f)
		}
	}
	slices.SortFunc(list, func(a, b Favorite) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.key(), b.key())
	})
	return list, nil
}

func load() (map[string]Favorite, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]Favorite), nil
	}
	return cached, nil
}
