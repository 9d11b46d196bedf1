package catalog

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/xtream"
)

type source struct {
	calls         int
	categoriesErr error
}

func (s *source) Host() string { return "http://panel.test" }

func (s *source) LiveCategories(context.Context) ([]xtream.Category, error) {
	return []xtream.Category{{ID: "1", Name: "News"}}, s.categoriesErr
}

func (s *source) VODCategories(context.Context) ([]xtream.Category, error) {
	return nil, nil
}

func (s *source) SeriesCategories(context.Context) ([]xtream.Category, error) {
	return nil, nil
}

func (s *source) LiveStreams(context.Context, string) ([]xtream.LiveStream, error) {
	s.calls++
	return []xtream.LiveStream{
		{Name: "BBC News", StreamID: 1, CategoryID: "1", TVArchive: 1},
		{Name: "Sky Sports", StreamID: 2, CategoryID: "2"},
	}, nil
}

func (s *source) VODStreams(context.Context, string) ([]xtream.VODStream, error) {
	return []xtream.VODStream{{Name: "Heat", StreamID: 900, ContainerExtension: "mkv"}}, nil
}

func (s *source) Series(context.Context, string) ([]xtream.Series, error) {
	return nil, errors.New("panel down")
}

func TestLoad(t *testing.T) {
	Convey("Given a panel source", t, func() {
		filesystem.SetMemMapFs()
		src := &source{}
		ctx := context.Background()

		Convey("Live items carry category names and DVR flags", func() {
			items, err := Load(ctx, src, Live, false)
			So(err, ShouldBeNil)
			So(items, ShouldHaveLength, 2)
			So(items[0].Category, ShouldEqual, "News")
			So(items[0].DVR, ShouldBeTrue)
			So(items[1].Category, ShouldEqual, "")
			So(items[0].String(), ShouldEqual, "BBC News (News)")
		})

		Convey("A second load is served from the cache unless fresh", func() {
			_, _ = Load(ctx, src, Live, false)
			_, _ = Load(ctx, src, Live, false)
			So(src.calls, ShouldEqual, 1)
			_, _ = Load(ctx, src, Live, true)
			So(src.calls, ShouldEqual, 2)
		})

		Convey("Missing categories do not fail the listing", func() {
			src.categoriesErr = errors.New("nope")
			items, err := Load(ctx, src, Live, true)
			So(err, ShouldBeNil)
			So(items[0].Category, ShouldEqual, "")
		})

		Convey("Movies keep their container extension", func() {
			items, err := Load(ctx, src, Movie, false)
			So(err, ShouldBeNil)
			So(items[0].Extension, ShouldEqual, "mkv")
		})

		Convey("Listing errors are returned", func() {
			_, err := Load(ctx, src, Series, false)
			So(err, ShouldNotBeNil)
			_, err = Load(ctx, src, Kind("radio"), false)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given some channels", t, func() {
		items := []Item{
			{ID: 1, Name: "BBC News HD"},
			{ID: 2, Name: "Sky Sports"},
			{ID: 3, Name: "News"},
			{ID: 4, Name: "CNN"},
		}

		Convey("An empty query keeps everything", func() {
			So(Filter(items, "  "), ShouldHaveLength, 4)
		})

		Convey("Matches are ranked by closeness", func() {
			got := Filter(items, "news")
			So(got, ShouldHaveLength, 2)
			So(got[0].ID, ShouldEqual, 3)
			So(got[1].ID, ShouldEqual, 1)
		})

		Convey("Find looks up by id", func() {
			So(Find(items, 4).MustGet().Name, ShouldEqual, "CNN")
			So(Find(items, 9).IsPresent(), ShouldBeFalse)
		})

		Convey("Accents are ignored", func() {
			accented := append(items, Item{ID: 5, Name: "Télé Nostalgie"})
			got := Filter(accented, "tele")
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, 5)
			So(normalize(" Télé "), ShouldEqual, "tele")
		})

		Convey("Closest picks the nearest name", func() {
			So(Closest(items, "sky sport").MustGet().ID, ShouldEqual, 2)
			So(Closest(nil, "x").IsPresent(), ShouldBeFalse)
		})
	})
}
