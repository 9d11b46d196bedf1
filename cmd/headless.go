package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/config"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/player"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/xtream"
)

const headlessPoll = time.Second

// headlessDisplay stands in for a screen when mpv's own window is the only one.
type headlessDisplay struct{}

func (headlessDisplay) LockLandscape() error    { return nil }
func (headlessDisplay) Unlock() error           { return nil }
func (headlessDisplay) SetStatusBarHidden(bool) {}
func (headlessDisplay) CanOverride() bool       { return false }
func (headlessDisplay) SetBrightness(float64)   {}

// playHeadless runs a supervised session on its own loop without the terminal
// player. It returns when mpv is closed, playback fails or ctx is interrupted.
func playHeadless(ctx context.Context, client *xtream.Client, target session.Target) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	loop := session.NewLoop(0)
	build := sessionDeps(client)

	sv := &session.Supervisor{
		Target:      target,
		Config:      config.Playback(),
		Post:        loop.Post,
		MaxRestarts: viper.GetInt(key.PlayerMaxRestarts),
		Deps: func() (session.Deps, error) {
			deps, err := build(target)
			deps.Display = headlessDisplay{}
			return deps, err
		},
	}

	var (
		result    error
		announced bool
		watch     func()
	)

	finish := func(err error) {
		result = err
		loop.Stop()
	}

	watch = func() {
		s := sv.Current()
		if s == nil || s.Closed() {
			finish(sv.Err())
			return
		}

		if err := s.Err(); err != nil {
			if errors.Is(err, player.ErrExited) {
				err = nil
			}
			finish(err)
			return
		}

		if now, ok := s.View().Now.Get(); ok && !announced {
			announced = true
			fmt.Printf("%s %s\n", style.Faint("on now"), now.Title)
		}

		time.AfterFunc(headlessPoll, func() { loop.Post(watch) })
	}

	loop.Post(func() {
		if err := sv.Start(ctx); err != nil {
			finish(err)
			return
		}
		fmt.Printf("%s playing %s\n", style.Fg(color.Green)(icon.Get(icon.Play)), style.Fg(color.Purple)(target.Title))
		watch()
	})

	err := loop.Run(ctx)
	sv.Close()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return result
}
