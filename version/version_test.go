package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/filesystem"
)

func TestCompare(t *testing.T) {
	Convey("Versions compare component-wise", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"1.2.3", "1.2.3", 0},
			{"v1.10.0", "1.9.9", 1},
			{"0.3.0", "0.3.1", -1},
			{"2.0.0", "v10.0.0", -1},
			{"1.0.0-rc1", "1.0.0", 0},
			{"v0.4.0+build.7", "0.3.9", 1},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)

		_, err = Compare("1.2", "1.2.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release endpoint", t, func() {
		filesystem.SetMemMapFs()
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte(`{"tag_name":"v0.4.1"}`))
		}))
		defer srv.Close()

		old := ReleasesURL
		ReleasesURL = srv.URL
		defer func() { ReleasesURL = old }()

		Convey("The tag is returned without its prefix and cached", func() {
			v, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.4.1")

			v, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.4.1")
			So(hits, ShouldEqual, 1)
		})
	})
}
