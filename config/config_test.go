package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/session"
)

func setup() {
	filesystem.SetMemMapFs()
	viper.Reset()
	So(Setup(), ShouldBeNil)
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		setup()

		Convey("Should have default values populated", func() {
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("gesture.cell_width"), ShouldEqual, "gesture_cell_width")
		})

		Convey("Env names carry the application prefix", func() {
			f := Default[key.PlayerSkipStep]
			So(f.Env(), ShouldEqual, "XTPLAY_PLAYER_SKIP_STEP")
		})

		Convey("Environment variables override defaults", func() {
			t.Setenv("XTPLAY_PLAYER_DVR_SEEK", "false")
			So(viper.GetBool(key.PlayerDVRSeek), ShouldBeFalse)
		})

		Convey("Write creates the file and it is read back", func() {
			viper.Set(key.PanelHost, "http://panel.tv")
			So(Write(), ShouldBeNil)
			So(Write(), ShouldBeNil)

			viper.Reset()
			So(Setup(), ShouldBeNil)
			So(viper.GetString(key.PanelHost), ShouldEqual, "http://panel.tv")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given typed fields", t, func() {
		Convey("Values are converted to the default's type", func() {
			f := Default[key.PlayerSkipStep]
			v, err := f.Parse([]string{"15"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 15)

			f = Default[key.GestureVerticalGain]
			v, err = f.Parse([]string{"0.004"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.004)

			f = Default[key.PlayerDVRSeek]
			v, err = f.Parse([]string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)
		})

		Convey("Bad values are rejected", func() {
			f := Default[key.PlayerSkipStep]
			_, err := f.Parse([]string{"ten"})
			So(err, ShouldNotBeNil)

			_, err = f.Parse(nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPlayback(t *testing.T) {
	Convey("Given default settings", t, func() {
		setup()

		Convey("Playback matches the built-in defaults", func() {
			So(Playback(), ShouldResemble, session.DefaultConfig())
		})

		Convey("Overrides flow through", func() {
			viper.Set(key.OverlayHideDelay, 2500)
			viper.Set(key.PlayerVolume, 0.4)
			viper.Set(key.GestureThreshold, 20.0)
			viper.Set(key.PlayerQualityMenu, false)

			cfg := Playback()
			So(cfg.Timing.HideDelay, ShouldEqual, 2500*time.Millisecond)
			So(cfg.Transport.Volume, ShouldEqual, 0.4)
			So(cfg.Gesture.Threshold, ShouldEqual, 20.0)
			So(cfg.QualityMenu, ShouldBeFalse)
		})

		Convey("Nonsense is clamped or replaced", func() {
			viper.Set(key.PlayerVolume, 7.0)
			viper.Set(key.PlayerBrightness, 0.0)
			viper.Set(key.OverlayFadeIn, -5)
			viper.Set(key.GestureThreshold, 0.0)

			cfg := Playback()
			So(cfg.Transport.Volume, ShouldEqual, 1.0)
			So(cfg.Transport.Brightness, ShouldEqual, 0.1)
			So(cfg.Timing.FadeIn, ShouldEqual, 200*time.Millisecond)
			So(cfg.Gesture.Threshold, ShouldEqual, 15.0)
		})
	})
}
