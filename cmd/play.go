package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/history"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/open"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/xtream"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.AddCommand(playLiveCmd, playMovieCmd, playEpisodeCmd, playURLCmd)

	playEpisodeCmd.Flags().StringP("ext", "e", "mp4", "Container extension of the episode")
	playEpisodeCmd.Flags().StringP("title", "t", "", "Title shown in the player")

	playURLCmd.Flags().StringP("title", "t", "", "Title shown in the player")
	playURLCmd.Flags().BoolP("live", "l", false, "Treat the stream as a live channel")

	playCmd.PersistentFlags().BoolP("external", "x", false, "Hand the stream to another program instead of the built-in player")
	playCmd.PersistentFlags().StringP("with", "w", "", "Program to open the stream with, implies --external")
	playCmd.PersistentFlags().Bool("headless", false, "Play in mpv's own window without the terminal player")
	playCmd.MarkFlagsMutuallyExclusive("external", "headless")
	playCmd.MarkFlagsMutuallyExclusive("with", "headless")
}

// playCmd groups the direct playback commands.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a channel, movie, episode or URL without browsing",
}

var playLiveCmd = &cobra.Command{
	Use:     "live <id|name>",
	Aliases: []string{"channel"},
	Short:   "Play a live channel by stream id or closest name",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		playItem(cmd, catalog.Live, strings.Join(args, " "))
	},
}

var playMovieCmd = &cobra.Command{
	Use:     "movie <id|name>",
	Aliases: []string{"vod"},
	Short:   "Play a movie by stream id or closest name",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		playItem(cmd, catalog.Movie, strings.Join(args, " "))
	},
}

var playEpisodeCmd = &cobra.Command{
	Use:   "episode <episode-id>",
	Short: "Play a series episode by its panel id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := panelClient()
		handleErr(err)

		title := lo.Must(cmd.Flags().GetString("title"))
		item := catalog.Item{
			Kind:      catalog.Episode,
			Name:      lo.Ternary(title != "", title, "Episode "+args[0]),
			Extension: lo.Must(cmd.Flags().GetString("ext")),
			Ref:       args[0],
		}

		target, err := catalog.Target(client, item)
		handleErr(err)
		start(cmd, client, target)
	},
}

var playURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Play any stream URL or local file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := urlTarget(args[0], lo.Must(cmd.Flags().GetString("title")), lo.Must(cmd.Flags().GetBool("live")))
		start(cmd, nil, target)
	},
}

// playItem finds an item of a section by id, or by the closest name, and plays it.
func playItem(cmd *cobra.Command, kind catalog.Kind, query string) {
	client, err := panelClient()
	handleErr(err)

	ctx, cancel := context.WithTimeout(cmd.Context(), panelTimeout)
	defer cancel()

	item, err := lookup(ctx, client, kind, query)
	handleErr(err)

	target, err := catalog.Target(client, item)
	handleErr(err)
	start(cmd, client, target)
}

// start plays the target in the terminal player, headless in mpv's window,
// or hands it to another program with --external or --with.
func start(cmd *cobra.Command, client *xtream.Client, target session.Target) {
	if lo.Must(cmd.Flags().GetBool("headless")) {
		CheckDependencies()
		handleErr(playHeadless(cmd.Context(), client, target))
		return
	}

	app := lo.Must(cmd.Flags().GetString("with"))
	if !lo.Must(cmd.Flags().GetBool("external")) && app == "" {
		play(client, target)
		return
	}

	handleErr(open.StartWith(target.URL, app))
	fmt.Printf("%s opened %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(target.Title))
}

func lookup(ctx context.Context, client *xtream.Client, kind catalog.Kind, query string) (catalog.Item, error) {
	items, err := catalog.Load(ctx, client, kind, false)
	if err != nil {
		return catalog.Item{}, err
	}

	if id, err := strconv.Atoi(query); err == nil {
		if item, ok := catalog.Find(items, id).Get(); ok {
			return item, nil
		}
		return catalog.Item{}, fmt.Errorf("no %s with id %d", kind, id)
	}

	matched := catalog.Filter(items, query)
	if len(matched) == 0 {
		if closest, ok := catalog.Closest(items, query).Get(); ok {
			return catalog.Item{}, fmt.Errorf("no %s matches %q, did you mean %q?", kind, query, closest.Name)
		}
		return catalog.Item{}, fmt.Errorf("no %s matches %q", kind, query)
	}
	return matched[0], nil
}

// urlTarget plays a bare address, titled after its last path element by default.
func urlTarget(raw, title string, live bool) session.Target {
	if title == "" {
		title = raw
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			title = path.Base(u.Path)
		}
	}

	return session.Target{
		URL:      raw,
		Title:    title,
		Kind:     lo.Ternary(live, session.Live, session.VideoOnDemand),
		StreamID: mo.None[int](),
	}
}

// resume plays the most recently watched channel.
func resume() {
	entry, ok, err := history.Last()
	handleErr(err)
	if !ok {
		handleErr(errors.New("nothing watched yet"))
	}

	client, err := panelClient()
	handleErr(err)

	item := catalog.Item{ID: entry.ID, Kind: catalog.Live, Name: entry.Name}

	// the cached listing knows whether the channel has an archive
	ctx, cancel := context.WithTimeout(context.Background(), panelTimeout)
	defer cancel()
	if items, err := catalog.Load(ctx, client, catalog.Live, false); err == nil {
		if found, ok := catalog.Find(items, entry.ID).Get(); ok {
			item = found
		}
	}

	target, err := catalog.Target(client, item)
	handleErr(err)
	play(client, target)
}
