package cmd

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/favorites"
	"github.com/xtplay/xtplay/history"
)

var schemaTargets = map[string]any{
	"catalog":   []catalog.Item{},
	"favorites": []favorites.Favorite{},
	"recent":    []history.Entry{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

// schemaCmd prints the JSON schema of the --json outputs.
var schemaCmd = &cobra.Command{
	Use:       "schema <catalog|favorites|recent>",
	Short:     "Print the JSON schema of the --json outputs",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"catalog", "favorites", "recent"},
	Run: func(cmd *cobra.Command, args []string) {
		target := schemaTargets[args[0]]

		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return t.Name()
		}

		printJSON(reflector.Reflect(target))
	},
}

// printJSON writes v to stdout for scripts.
func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	handleErr(encoder.Encode(v))
}
