package config

import (
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/gesture"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/overlay"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/transport"
	"golang.org/x/exp/constraints"
)

// Playback builds the player configuration from the current settings.
// Out of range levels are clamped; non-positive timings fall back to the defaults.
func Playback() session.Config {
	defaults := session.DefaultConfig()

	return session.Config{
		DVRSeek:      viper.GetBool(key.PlayerDVRSeek),
		QualityMenu:  viper.GetBool(key.PlayerQualityMenu),
		PinLandscape: viper.GetBool(key.PlayerPinLandscape),
		SkipStep:     positive(viper.GetFloat64(key.PlayerSkipStep), defaults.SkipStep),
		Transport: transport.Config{
			Volume:     lo.Clamp(viper.GetFloat64(key.PlayerVolume), transport.MinVolume, transport.MaxVolume),
			Brightness: lo.Clamp(viper.GetFloat64(key.PlayerBrightness), transport.MinBrightness, transport.MaxBrightness),
			Thresholds: transport.Thresholds{
				Excellent: viper.GetFloat64(key.QualityExcellent),
				Good:      viper.GetFloat64(key.QualityGood),
				Fair:      viper.GetFloat64(key.QualityFair),
			},
			LiveWindow: viper.GetFloat64(key.PlayerLiveWindow),
		},
		Gesture: gesture.Config{
			Threshold:    positive(viper.GetFloat64(key.GestureThreshold), defaults.Gesture.Threshold),
			VerticalGain: positive(viper.GetFloat64(key.GestureVerticalGain), defaults.Gesture.VerticalGain),
			LiveSeekRate: positive(viper.GetFloat64(key.GestureLiveRate), defaults.Gesture.LiveSeekRate),
			DVRBack:      viper.GetFloat64(key.GestureDVRBack),
			DVRForward:   viper.GetFloat64(key.GestureDVRForward),
		},
		Timing: overlay.Timing{
			HideDelay:        millis(key.OverlayHideDelay, defaults.Timing.HideDelay),
			FadeIn:           millis(key.OverlayFadeIn, defaults.Timing.FadeIn),
			FadeOut:          millis(key.OverlayFadeOut, defaults.Timing.FadeOut),
			IndicatorFadeIn:  millis(key.OverlayIndicatorFadeIn, defaults.Timing.IndicatorFadeIn),
			IndicatorHold:    millis(key.OverlayIndicatorHold, defaults.Timing.IndicatorHold),
			IndicatorFadeOut: millis(key.OverlayIndicatorFadeOut, defaults.Timing.IndicatorFadeOut),
		},
	}
}

func positive[T constraints.Integer | constraints.Float](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

func millis(k string, fallback time.Duration) time.Duration {
	return positive(time.Duration(viper.GetInt(k))*time.Millisecond, fallback)
}
