package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/favorites"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/style"
)

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRemoveCmd, favoritesListCmd)

	favoritesListCmd.Flags().BoolP("browse", "b", false, "Open the favorites in the browser")
	favoritesListCmd.Flags().BoolP("json", "j", false, "Print the list as JSON")
	favoritesListCmd.MarkFlagsMutuallyExclusive("browse", "json")
}

// favoritesCmd manages saved channels, movies and series.
var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite channels, movies and series",
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <live|movie|series> <id|name>",
	Short: "Save an item as a favorite",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := favorites.ParseKind(args[0])
		handleErr(err)

		client, err := panelClient()
		handleErr(err)

		ctx, cancel := context.WithTimeout(cmd.Context(), panelTimeout)
		defer cancel()

		item, err := lookup(ctx, client, catalog.Kind(kind), strings.Join(args[1:], " "))
		handleErr(err)

		handleErr(favorites.Add(favorites.Favorite{
			ID:      item.ID,
			Kind:    kind,
			Name:    item.Name,
			AddedAt: time.Now(),
		}))
		fmt.Printf("%s added %s\n", style.Fg(color.Green)(icon.Get(icon.Favorite)), style.Fg(color.Purple)(item.Name))
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <live|movie|series> <id>",
	Short: "Forget a favorite",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := favorites.ParseKind(args[0])
		handleErr(err)

		id, err := strconv.Atoi(args[1])
		handleErr(err)

		removed, err := favorites.Remove(kind, id)
		handleErr(err)

		if !removed {
			fmt.Printf("%s %s %d is not a favorite\n", icon.Get(icon.Warn), kind, id)
			return
		}
		fmt.Printf("%s removed %s %d\n", style.Fg(color.Green)(icon.Get(icon.Success)), kind, id)
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list [live|movie|series]",
	Short: "List favorites, optionally of one kind",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kinds := []favorites.Kind{favorites.Live, favorites.Movie, favorites.Series}
		if len(args) == 1 {
			kind, err := favorites.ParseKind(args[0])
			handleErr(err)
			kinds = []favorites.Kind{kind}
		}

		saved := []favorites.Favorite{}
		for _, kind := range kinds {
			list, err := favorites.List(kind)
			handleErr(err)
			saved = append(saved, list...)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(saved)
			return
		}

		if len(saved) == 0 {
			fmt.Println("No favorites yet")
			return
		}

		if lo.Must(cmd.Flags().GetBool("browse")) {
			CheckDependencies()

			client, err := panelClient()
			handleErr(err)

			options := tuiOptions(client)
			options.Title = "Favorites"
			options.Items = lo.Map(saved, func(f favorites.Favorite, _ int) catalog.Item {
				return catalog.Item{ID: f.ID, Kind: catalog.Kind(f.Kind), Name: f.Name}
			})
			runTUI(options)
			return
		}

		for _, f := range saved {
			fmt.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Favorite),
				style.Faint(string(f.Kind)),
				style.Fg(color.Yellow)(strconv.Itoa(f.ID)),
				f.Name,
			)
		}
	},
}
