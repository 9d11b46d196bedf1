package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/xtream"
)

// EpisodeSource lists the episodes of a series.
type EpisodeSource interface {
	SeriesInfo(ctx context.Context, seriesID int) (*xtream.SeriesInfo, error)
}

// URLs builds stream addresses.
type URLs interface {
	StreamURL(streamID int) string
	VODURL(streamID int, ext string) string
	SeriesURL(episodeID, ext string) string
}

// Episodes returns the episodes of a series in season and episode order.
func Episodes(ctx context.Context, src EpisodeSource, seriesID int) ([]Item, error) {
	info, err := src.SeriesInfo(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	seasons := lo.Keys(info.Episodes)
	sort.Slice(seasons, func(i, j int) bool {
		a, errA := strconv.Atoi(seasons[i])
		b, errB := strconv.Atoi(seasons[j])
		if errA != nil || errB != nil {
			return seasons[i] < seasons[j]
		}
		return a < b
	})

	var items []Item
	for _, season := range seasons {
		episodes := info.Episodes[season]
		sort.SliceStable(episodes, func(i, j int) bool {
			return episodes[i].EpisodeNum.Int() < episodes[j].EpisodeNum.Int()
		})

		for _, e := range episodes {
			items = append(items, Item{
				ID:        e.EpisodeNum.Int(),
				Kind:      Episode,
				Name:      episodeName(season, e),
				Category:  info.Info.Name,
				Extension: e.ContainerExtension,
				Ref:       e.ID.String(),
			})
		}
	}
	return items, nil
}

func episodeName(season string, e xtream.Episode) string {
	n, err := strconv.Atoi(season)
	if err != nil {
		n = e.Season.Int()
	}
	code := fmt.Sprintf("S%02dE%02d", n, e.EpisodeNum.Int())
	if e.Title == "" {
		return code
	}
	return code + " " + e.Title
}

// Target turns a playable item into what a player session needs.
// Series are not playable; list their episodes first.
func Target(urls URLs, item Item) (session.Target, error) {
	switch item.Kind {
	case Live:
		return session.Target{
			URL:      urls.StreamURL(item.ID),
			Title:    item.Name,
			Kind:     session.Live,
			StreamID: mo.Some(item.ID),
			DVR:      item.DVR,
		}, nil
	case Movie:
		return session.Target{
			URL:      urls.VODURL(item.ID, item.Extension),
			Title:    item.Name,
			Kind:     session.VideoOnDemand,
			StreamID: mo.None[int](),
		}, nil
	case Episode:
		title := item.Name
		if item.Category != "" {
			title = item.Category + " " + item.Name
		}
		return session.Target{
			URL:      urls.SeriesURL(item.Ref, item.Extension),
			Title:    title,
			Kind:     session.VideoOnDemand,
			StreamID: mo.None[int](),
		}, nil
	default:
		return session.Target{}, fmt.Errorf("%s %q is not playable", item.Kind, item.Name)
	}
}
