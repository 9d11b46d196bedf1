package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/epg"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/util"
)

func init() {
	rootCmd.AddCommand(epgCmd)
	epgCmd.Flags().IntP("limit", "n", 0, "Number of programs to fetch (defaults to "+key.PanelEPGLimit+")")
	epgCmd.Flags().BoolP("description", "d", false, "Show program descriptions")
}

// epgCmd prints the guide of a live channel.
var epgCmd = &cobra.Command{
	Use:     "epg <id|name>",
	Aliases: []string{"guide"},
	Short:   "Show what is on a live channel",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := panelClient()
		handleErr(err)

		ctx, cancel := context.WithTimeout(cmd.Context(), panelTimeout)
		defer cancel()

		item, err := lookup(ctx, client, catalog.Live, strings.Join(args, " "))
		handleErr(err)

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = viper.GetInt(key.PanelEPGLimit)
		}

		entries, err := client.EPG(ctx, item.ID, limit)
		handleErr(err)

		programs := epg.FromXtream(entries)
		fmt.Println(style.Title(icon.Get(icon.Live) + " " + item.Name))
		fmt.Println()

		if len(programs) == 0 {
			fmt.Println(style.Faint("No guide data"))
			return
		}

		describe, _ := cmd.Flags().GetBool("description")
		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 8 {
			width = w - 4
		}

		now := time.Now()
		for _, p := range programs {
			when := p.Start.Local().Format("Mon 15:04") + "–" + p.Stop.Local().Format("15:04")
			line := fmt.Sprintf("%s  %s", style.Faint(when), p.Title)
			if p.Airing(now) {
				line = fmt.Sprintf("%s  %s %s", style.Fg(color.Green)(when), style.Bold(p.Title), style.Faint(fmt.Sprintf("%.0f%%", p.Progress(now)*100)))
			}
			fmt.Println(line)

			if description, ok := p.Description.Get(); ok && describe {
				fmt.Println(style.Faint(indent.String(wordwrap.String(description, width), 4)))
			}
		}
	},
}
