package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given remembered filters", t, func() {
		viper.Set(key.SearchRememberFilters, true)
		viper.Set(key.SearchFilterSuggestions, true)

		So(Remember("sport", 1), ShouldBeNil)
		So(Remember("  SPORTS HD ", 5), ShouldBeNil)
		So(Remember("news", 2), ShouldBeNil)

		Convey("Suggestions are ranked by use", func() {
			s := SuggestMany("spo")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "sports hd")
			So(s, ShouldContain, "sport")
			So(s, ShouldNotContain, "news")
		})

		Convey("Suggest picks the best match", func() {
			So(Suggest("new").MustGet(), ShouldEqual, "news")
			So(Suggest("zzz").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions can be turned off", func() {
			viper.Set(key.SearchFilterSuggestions, false)
			So(SuggestMany("spo"), ShouldBeEmpty)
		})

		Convey("Blank filters are not remembered", func() {
			So(Remember("   ", 1), ShouldBeNil)
			So(SuggestMany(""), ShouldNotContain, "")
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  NEWS  "), ShouldEqual, "news")
		})
	})
}
