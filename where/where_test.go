package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs() lives under Config()", func() {
			path := Logs()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			So(filepath.Dir(path), ShouldEqual, Config())
		})

		Convey("Recent() and Favorites() are json files in Config()", func() {
			So(filepath.Dir(Recent()), ShouldEqual, Config())
			So(filepath.Ext(Recent()), ShouldEqual, ".json")
			So(filepath.Dir(Favorites()), ShouldEqual, Config())
		})

		Convey("Queries() is kept with the cache", func() {
			So(filepath.Dir(Queries()), ShouldEqual, Cache())
		})

		Convey("XTPLAY_CONFIG_PATH overrides Config()", func() {
			t.Setenv(EnvConfigPath, "/custom/xtplay")
			So(Config(), ShouldEqual, "/custom/xtplay")
			So(lo.Must(filesystem.API().IsDir("/custom/xtplay")), ShouldBeTrue)
		})
	})
}
