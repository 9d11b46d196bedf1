package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/m3u"
	"github.com/xtplay/xtplay/network"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/style"
)

func init() {
	rootCmd.AddCommand(m3uCmd)
	m3uCmd.Flags().StringP("filter", "f", "", "Only list channels whose name fuzzy matches")
	_ = m3uCmd.RegisterFlagCompletionFunc("filter", completionFilters)

	m3uCmd.AddCommand(m3uExportCmd)
	m3uExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	m3uExportCmd.Flags().BoolP("fresh", "F", false, "Bypass the cached listing")
}

// m3uCmd browses the channels of a playlist file or URL.
var m3uCmd = &cobra.Command{
	Use:   "m3u <file|url>",
	Short: "Browse and play the channels of an M3U playlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		channels, err := loadPlaylist(cmd.Context(), args[0])
		handleErr(err)

		items := lo.Map(channels, func(ch m3u.Channel, i int) catalog.Item {
			return catalog.Item{ID: i, Kind: catalog.Live, Name: ch.Name, Category: ch.Group, DVR: ch.Catchup, Icon: ch.Logo}
		})
		if filter := lo.Must(cmd.Flags().GetString("filter")); filter != "" {
			items = catalog.Filter(items, filter)
		}

		options := tuiOptions(nil)
		options.Title = "Playlist"
		options.Items = items
		options.Resolve = func(item catalog.Item) (session.Target, error) {
			if item.ID < 0 || item.ID >= len(channels) {
				return session.Target{}, fmt.Errorf("no channel %d in playlist", item.ID)
			}
			ch := channels[item.ID]
			target := urlTarget(ch.URL, ch.Name, true)
			target.DVR = ch.Catchup
			return target, nil
		}
		runTUI(options)
	},
}

var m3uExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the panel's live channels as an M3U playlist",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, err := panelClient()
		handleErr(err)

		ctx, cancel := context.WithTimeout(cmd.Context(), panelTimeout)
		defer cancel()

		items, err := catalog.Load(ctx, client, catalog.Live, lo.Must(cmd.Flags().GetBool("fresh")))
		handleErr(err)

		channels := lo.Map(items, func(item catalog.Item, _ int) m3u.Channel {
			return m3u.Channel{
				Name:    item.Name,
				TvgID:   fmt.Sprint(item.ID),
				Logo:    item.Icon,
				Group:   item.Category,
				URL:     client.StreamURL(item.ID),
				Catchup: item.DVR,
			}
		})

		var out io.Writer = os.Stdout
		output := lo.Must(cmd.Flags().GetString("output"))
		if output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			out = file
		}

		handleErr(m3u.Write(out, channels))

		if output != "" {
			fmt.Fprintf(os.Stderr, "%s wrote %d channels to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), len(channels), output)
		}
	},
}

func loadPlaylist(ctx context.Context, source string) ([]m3u.Channel, error) {
	if !strings.Contains(source, "://") {
		return m3u.Open(source)
	}

	ctx, cancel := context.WithTimeout(ctx, panelTimeout)
	defer cancel()
	return m3u.Fetch(ctx, network.New(viper.GetBool(key.PanelTLSFingerprint)), source)
}
