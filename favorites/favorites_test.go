package favorites

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestFavorites(t *testing.T) {
	Convey("Given some favorites", t, func() {
		So(Add(Favorite{ID: 7, Kind: Live, Name: "sports"}), ShouldBeNil)
		So(Add(Favorite{ID: 42, Kind: Live, Name: "News 24"}), ShouldBeNil)
		So(Add(Favorite{ID: 42, Kind: Movie, Name: "Heat"}), ShouldBeNil)

		Reset(func() {
			for _, f := range all(List("")) {
				_, _ = Remove(f.Kind, f.ID)
			}
		})

		Convey("List filters by kind and sorts by name", func() {
			live, err := List(Live)
			So(err, ShouldBeNil)
			So(live, ShouldHaveLength, 2)
			So(live[0].Name, ShouldEqual, "News 24")
			So(live[1].Name, ShouldEqual, "sports")

			everything, _ := List("")
			So(everything, ShouldHaveLength, 3)
		})

		Convey("The same id in another section is a different favorite", func() {
			ok, _ := Has(Movie, 42)
			So(ok, ShouldBeTrue)
			removed, err := Remove(Live, 42)
			So(err, ShouldBeNil)
			So(removed, ShouldBeTrue)
			ok, _ = Has(Movie, 42)
			So(ok, ShouldBeTrue)
		})

		Convey("Removing a missing favorite reports false", func() {
			removed, err := Remove(Series, 1)
			So(err, ShouldBeNil)
			So(removed, ShouldBeFalse)
		})

		Convey("Adding again keeps the original date", func() {
			before, _ := List(Live)
			So(Add(Favorite{ID: 7, Kind: Live, Name: "Sports HD"}), ShouldBeNil)
			after, _ := List(Live)
			So(after[1].Name, ShouldEqual, "Sports HD")
			So(after[1].AddedAt.Equal(before[1].AddedAt), ShouldBeTrue)
		})
	})
}

func TestParseKind(t *testing.T) {
	Convey("ParseKind accepts aliases", t, func() {
		k, err := ParseKind("Channels")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, Live)
		k, _ = ParseKind("vod")
		So(k, ShouldEqual, Movie)
		_, err = ParseKind("radio")
		So(err, ShouldNotBeNil)
	})
}

func all(list []Favorite, _ error) []Favorite { return list }
