// Package catalog flattens panel listings into one item type and offers fuzzy
// lookup over them.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/internal/cache"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/xtream"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind is the catalog section.
type Kind string

const (
	Live    Kind = "live"
	Movie   Kind = "movie"
	Series  Kind = "series"
	// Episode items come from a series and are never cached as a section.
	Episode Kind = "episode"
)

// Item is one playable or browsable catalog entry.
type Item struct {
	ID        int    `json:"id" jsonschema:"description=Panel stream id. Series use their series id."`
	Kind      Kind   `json:"kind" jsonschema:"enum=live,enum=movie,enum=series,enum=episode"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty" jsonschema:"description=Name of the panel category."`
	DVR       bool   `json:"dvr,omitempty" jsonschema:"description=Whether the channel keeps a seekable archive."`
	Extension string `json:"extension,omitempty" jsonschema:"description=Container extension of a movie or episode."`
	Icon      string `json:"icon,omitempty" jsonschema:"description=Logo or poster URL."`
	// Ref is the panel's string identifier, used by episodes.
	Ref       string `json:"ref,omitempty" jsonschema:"description=Panel episode id."`
}

func (i Item) String() string {
	if i.Category == "" {
		return i.Name
	}
	return fmt.Sprintf("%s (%s)", i.Name, i.Category)
}

// Source is the panel API the catalog reads from.
type Source interface {
	Host() string
	LiveCategories(ctx context.Context) ([]xtream.Category, error)
	VODCategories(ctx context.Context) ([]xtream.Category, error)
	SeriesCategories(ctx context.Context) ([]xtream.Category, error)
	LiveStreams(ctx context.Context, categoryID string) ([]xtream.LiveStream, error)
	VODStreams(ctx context.Context, categoryID string) ([]xtream.VODStream, error)
	Series(ctx context.Context, categoryID string) ([]xtream.Series, error)
}

// Load returns the items of a section, from the disk cache unless fresh is set.
// Category names are best effort.
func Load(ctx context.Context, src Source, kind Kind, fresh bool) ([]Item, error) {
	key := cache.Key(src.Host(), string(kind))
	if !fresh {
		var items []Item
		if cache.Read(key, &items) {
			return items, nil
		}
	}

	items, err := fetch(ctx, src, kind)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(key, items); err != nil {
		log.Warnf("catalog: caching %s listing: %s", kind, err)
	}
	return items, nil
}

// fetch reads categories and streams concurrently. Category names are joined
// in afterwards; a failed category call leaves them blank.
func fetch(ctx context.Context, src Source, kind Kind) ([]Item, error) {
	var (
		names map[string]string
		items []Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names = categoryNames(categories(gctx, src, kind))
		return nil
	})
	g.Go(func() (err error) {
		items, err = streams(gctx, src, kind)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Category = names[items[i].Category]
	}
	return items, nil
}

func categories(ctx context.Context, src Source, kind Kind) ([]xtream.Category, error) {
	switch kind {
	case Live:
		return src.LiveCategories(ctx)
	case Movie:
		return src.VODCategories(ctx)
	case Series:
		return src.SeriesCategories(ctx)
	}
	return nil, nil
}

// streams lists a section with Category holding the category id.
func streams(ctx context.Context, src Source, kind Kind) ([]Item, error) {
	switch kind {
	case Live:
		streams, err := src.LiveStreams(ctx, "")
		if err != nil {
			return nil, err
		}
		return lo.Map(streams, func(s xtream.LiveStream, _ int) Item {
			return Item{
				ID:       s.StreamID.Int(),
				Kind:     Live,
				Name:     s.Name,
				Category: s.CategoryID.String(),
				DVR:      s.DVR(),
				Icon:     s.Icon,
			}
		}), nil
	case Movie:
		streams, err := src.VODStreams(ctx, "")
		if err != nil {
			return nil, err
		}
		return lo.Map(streams, func(s xtream.VODStream, _ int) Item {
			return Item{
				ID:        s.StreamID.Int(),
				Kind:      Movie,
				Name:      s.Name,
				Category:  s.CategoryID.String(),
				Extension: s.ContainerExtension,
				Icon:      s.Icon,
			}
		}), nil
	case Series:
		series, err := src.Series(ctx, "")
		if err != nil {
			return nil, err
		}
		return lo.Map(series, func(s xtream.Series, _ int) Item {
			return Item{
				ID:       s.SeriesID.Int(),
				Kind:     Series,
				Name:     s.Name,
				Category: s.CategoryID.String(),
				Icon:     s.Cover,
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown catalog section %q", kind)
	}
}

func categoryNames(categories []xtream.Category, err error) map[string]string {
	if err != nil {
		log.Warnf("catalog: categories unavailable: %s", err)
		return map[string]string{}
	}
	return lo.SliceToMap(categories, func(c xtream.Category) (string, string) {
		return c.ID.String(), c.Name
	})
}

// Filter keeps items whose name fuzzily matches query, closest first.
// An empty query returns items unchanged.
func Filter(items []Item, query string) []Item {
	query = normalize(query)
	if query == "" {
		return items
	}

	matched := lo.Filter(items, func(i Item, _ int) bool {
		return fuzzy.MatchNormalizedFold(query, i.Name)
	})

	distance := make(map[int]int, len(matched))
	for idx, i := range matched {
		distance[idx] = levenshtein.Distance(query, normalize(i.Name))
	}
	order := lo.Range(len(matched))
	slices.SortStableFunc(order, func(a, b int) int {
		return distance[a] - distance[b]
	})
	return lo.Map(order, func(idx int, _ int) Item {
		return matched[idx]
	})
}

// Find returns the item with the given id.
func Find(items []Item, id int) mo.Option[Item] {
	item, ok := lo.Find(items, func(i Item) bool { return i.ID == id })
	if !ok {
		return mo.None[Item]()
	}
	return mo.Some(item)
}

// Closest returns the item whose name is nearest to name.
func Closest(items []Item, name string) mo.Option[Item] {
	if len(items) == 0 {
		return mo.None[Item]()
	}
	name = normalize(name)
	return mo.Some(lo.MinBy(items, func(a, b Item) bool {
		return levenshtein.Distance(name, normalize(a.Name)) < levenshtein.Distance(name, normalize(b.Name))
	}))
}

// normalize lower-cases s and strips accents so "Télé" ranks like "tele".
func normalize(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
