package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/query"
)

// section registers a browser command for one catalog section.
func section(use string, aliases []string, short string, kind catalog.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use + " [filter]",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			filter := lo.Must(cmd.Flags().GetString("filter"))
			if len(args) == 1 {
				filter = args[0]
			}
			browse(cmd, kind, filter)
		},
	}

	cmd.Flags().StringP("filter", "f", "", "Only list items whose name fuzzy matches")
	_ = cmd.RegisterFlagCompletionFunc("filter", completionFilters)
	cmd.Flags().BoolP("fresh", "F", false, "Bypass the cached listing")
	cmd.Flags().BoolP("json", "j", false, "Print the listing as JSON instead of browsing it")
	return cmd
}

func completionFilters(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(
		section("live", []string{"tv", "channels"}, "Browse live channels", catalog.Live),
		section("movies", []string{"vod", "movie"}, "Browse movies", catalog.Movie),
		section("series", []string{"shows"}, "Browse series and their episodes", catalog.Series),
	)
}
