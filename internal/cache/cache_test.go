package cache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/filesystem"
)

func TestCache(t *testing.T) {
	Convey("Given an in-memory cache directory", t, func() {
		filesystem.SetMemMapFs()

		Convey("Keys are stable and case-insensitive", func() {
			So(Key("http://panel", "live"), ShouldEqual, Key("HTTP://PANEL", "LIVE"))
			So(Key("a", "bc"), ShouldNotEqual, Key("ab", "c"))
		})

		Convey("A written entry can be read back", func() {
			type listing struct {
				Names []string `json:"names"`
			}
			So(Write("k", listing{Names: []string{"News"}}), ShouldBeNil)

			var got listing
			So(Read("k", &got), ShouldBeTrue)
			So(got.Names, ShouldResemble, []string{"News"})

			Convey("and purged", func() {
				freed, err := Purge()
				So(err, ShouldBeNil)
				So(freed, ShouldBeGreaterThan, 0)
				So(Read("k", &got), ShouldBeFalse)
			})
		})

		Convey("A missing entry is a miss", func() {
			var got []string
			So(Read("missing", &got), ShouldBeFalse)
		})
	})
}
