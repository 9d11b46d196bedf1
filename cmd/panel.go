package cmd

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/auth"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/config"
	"github.com/xtplay/xtplay/constant"
	"github.com/xtplay/xtplay/epg"
	"github.com/xtplay/xtplay/history"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/network"
	"github.com/xtplay/xtplay/player"
	"github.com/xtplay/xtplay/query"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/tui"
	"github.com/xtplay/xtplay/xtream"
)

const panelTimeout = 30 * time.Second

// panelClient connects to the panel saved by login.
func panelClient() (*xtream.Client, error) {
	creds, err := auth.Load()
	if err != nil {
		return nil, err
	}

	client, err := xtream.New(creds.Host, creds.Username, creds.Password, network.New(viper.GetBool(key.PanelTLSFingerprint)))
	if err != nil {
		return nil, err
	}

	if output := viper.GetString(key.PanelOutput); output != "" {
		client.Output = output
	}
	client.SetRate(viper.GetFloat64(key.PanelRateLimit))
	return client, nil
}

// sessionDeps builds the collaborators of one player session. A nil client
// plays a bare URL without a guide.
func sessionDeps(client *xtream.Client) func(session.Target) (session.Deps, error) {
	return func(target session.Target) (session.Deps, error) {
		deps := session.Deps{
			Engine: player.New(player.Options{
				Binary:    viper.GetString(key.PlayerBinary),
				Title:     target.Title,
				UserAgent: constant.UserAgent,
			}),
		}

		if client != nil {
			deps.EPG = epg.Source{Fetcher: client, Limit: viper.GetInt(key.PanelEPGLimit)}
		}
		if viper.GetBool(key.HistorySaveOnPlay) {
			deps.Recorder = history.Recorder{}
		}
		return deps, nil
	}
}

// tuiOptions carries the player configuration every entry point shares.
func tuiOptions(client *xtream.Client) *tui.Options {
	options := &tui.Options{
		Deps:        sessionDeps(client),
		Config:      config.Playback(),
		MaxRestarts: viper.GetInt(key.PlayerMaxRestarts),
		CellWidth:   viper.GetFloat64(key.GestureCellWidth),
		CellHeight:  viper.GetFloat64(key.GestureCellHeight),
	}

	if client != nil {
		options.Resolve = func(item catalog.Item) (session.Target, error) {
			return catalog.Target(client, item)
		}
		options.Expand = func(ctx context.Context, item catalog.Item) ([]catalog.Item, error) {
			return catalog.Episodes(ctx, client, item.ID)
		}
	}
	return options
}

// browse opens the catalog browser on one section.
func browse(cmd *cobra.Command, kind catalog.Kind, filter string) {
	asJSON := lookupBool(cmd, "json")
	if !asJSON {
		CheckDependencies()
	}

	client, err := panelClient()
	handleErr(err)

	ctx, cancel := context.WithTimeout(cmd.Context(), panelTimeout)
	defer cancel()

	items, err := catalog.Load(ctx, client, kind, lookupBool(cmd, "fresh"))
	handleErr(err)

	if filter != "" {
		items = catalog.Filter(items, filter)
		if err := query.Remember(filter, 1); err != nil {
			log.Warnf("remembering filter %q: %s", filter, err)
		}
	}

	if asJSON {
		printJSON(items)
		return
	}

	options := tuiOptions(client)
	options.Title = sectionTitle(kind)
	options.Items = items
	runTUI(options)
}

// play starts the player on one target and quits when it is left.
func play(client *xtream.Client, target session.Target) {
	CheckDependencies()

	options := tuiOptions(client)
	options.Target = mo.Some(target)
	runTUI(options)
}

func runTUI(options *tui.Options) {
	handleErr(tui.Run(options))
}

func sectionTitle(kind catalog.Kind) string {
	switch kind {
	case catalog.Movie:
		return "Movies"
	case catalog.Series:
		return "Series"
	default:
		return "Live TV"
	}
}

// lookupBool reads a bool flag that a command may not define.
func lookupBool(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}
