package cmd

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/history"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/style"
)

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().BoolP("browse", "b", false, "Open the recent channels in the browser")
	recentCmd.Flags().BoolP("json", "j", false, "Print the list as JSON")
	recentCmd.MarkFlagsMutuallyExclusive("browse", "json")

	recentCmd.AddCommand(recentRemoveCmd)
}

// recentCmd lists the recently watched channels, newest first.
var recentCmd = &cobra.Command{
	Use:     "recent",
	Aliases: []string{"history"},
	Short:   "List recently watched channels",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.Get()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(lo.Ternary(entries == nil, []history.Entry{}, entries))
			return
		}

		if len(entries) == 0 {
			fmt.Println("Nothing watched yet")
			return
		}

		if lo.Must(cmd.Flags().GetBool("browse")) {
			CheckDependencies()

			client, err := panelClient()
			handleErr(err)

			options := tuiOptions(client)
			options.Title = "Recently watched"
			options.Items = lo.Map(entries, func(e history.Entry, _ int) catalog.Item {
				return catalog.Item{ID: e.ID, Kind: catalog.Live, Name: e.Name, Category: e.WatchedAt.Local().Format("Jan 2 15:04")}
			})
			runTUI(options)
			return
		}

		for _, e := range entries {
			fmt.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Recent),
				style.Fg(color.Yellow)(strconv.Itoa(e.ID)),
				e.Name,
				style.Faint(e.WatchedAt.Local().Format("2006-01-02 15:04")),
			)
		}
	},
}

var recentRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Forget one channel, or all of them when no id is given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			handleErr(history.Clear())
			fmt.Printf("%s recent channels cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		id, err := strconv.Atoi(args[0])
		handleErr(err)
		handleErr(history.Remove(id))
		fmt.Printf("%s removed %d\n", style.Fg(color.Green)(icon.Get(icon.Success)), id)
	},
}
