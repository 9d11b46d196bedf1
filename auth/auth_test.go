package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/config"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/key"
	"github.com/zalando/go-keyring"
)

func TestCredentials(t *testing.T) {
	Convey("Given a mock keyring and an in-memory config", t, func() {
		keyring.MockInit()
		filesystem.SetMemMapFs()
		viper.Reset()
		So(config.Setup(), ShouldBeNil)

		Convey("Nothing is loaded before login", func() {
			_, err := Load()
			So(err, ShouldEqual, ErrNoCredentials)
		})

		Convey("Incomplete credentials are rejected", func() {
			err := Save(Credentials{Host: "panel.tv", Username: "  ", Password: "x"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "username is required")

			So(Credentials{Host: "panel.tv", Username: "ana"}.Validate().Error(), ShouldEqual, "password is required")
		})

		Convey("Saved credentials round trip", func() {
			c := Credentials{Host: "panel.tv:8080", Username: "ana", Password: "s3cret"}
			So(Save(c), ShouldBeNil)

			got, err := Load()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, c)

			Convey("The password stays out of the config", func() {
				So(viper.GetString(key.PanelHost), ShouldEqual, "panel.tv:8080")
				So(viper.AllSettings(), ShouldNotContainKey, "password")
			})

			Convey("Delete forgets them", func() {
				So(Delete(), ShouldBeNil)
				_, err := Load()
				So(err, ShouldEqual, ErrNoCredentials)
				So(Delete(), ShouldBeNil)
			})
		})

		Convey("A config without a keyring entry is not logged in", func() {
			viper.Set(key.PanelHost, "panel.tv")
			viper.Set(key.PanelUsername, "ghost")
			_, err := Load()
			So(err, ShouldEqual, ErrNoCredentials)
		})
	})
}
