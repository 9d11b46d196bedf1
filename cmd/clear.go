package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/internal/cache"
	"github.com/xtplay/xtplay/util"
	"github.com/xtplay/xtplay/where"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() (string, error)
}

func removeFile(location func() string) func() (string, error) {
	return func() (string, error) {
		return "", filesystem.API().RemoveAll(location())
	}
}

var clearTargets = []clearTarget{
	{"cached listings", "cache", mo.Some("c"), func() (string, error) {
		freed, err := cache.Purge()
		return humanize.Bytes(uint64(freed)) + " freed", err
	}},
	{"recently watched", "recent", mo.Some("r"), removeFile(where.Recent)},
	{"favorites", "favorites", mo.Some("f"), removeFile(where.Favorites)},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached and saved data.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached listings and saved lists",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			detail, err := target.clear()
			erase()
			handleErr(err)

			if detail != "" {
				detail = " (" + detail + ")"
			}
			fmt.Printf("%s %s cleared%s\n", icon.Get(icon.Success), util.Capitalize(target.name), detail)
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
