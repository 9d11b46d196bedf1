// Package query remembers the filters given to the browsers and ranks them
// for completion.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/where"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = sync.OnceValue(func() *gache.Cache[map[string]*record] {
	return gache.New[map[string]*record](&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	})
})

// Remember records a filter, or raises its rank by weight if it was seen before.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" || !viper.GetBool(key.SearchRememberFilters) {
		return nil
	}

	cached, expired, err := cacher().Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	return cacher().Set(cached)
}

// Suggest returns the best ranked filter matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns the remembered filters fuzzy matching q, best ranked first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchFilterSuggestions) {
		return nil
	}

	cached, expired, err := cacher().Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	q = sanitize(q)
	records := lo.Filter(lo.Values(cached), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
