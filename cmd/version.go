package cmd

import (
	"os"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/constant"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify(cmd.Context())

		unknown := func(s string) string {
			return lo.Ternary(strings.TrimSpace(s) == "", "unknown", strings.TrimSpace(s))
		}

		rows := []lo.Tuple2[string, string]{
			{A: "Version", B: constant.Version},
			{A: "Commit", B: unknown(constant.Revision)},
			{A: "Built", B: unknown(constant.BuiltAt)},
			{A: "Built by", B: unknown(constant.BuiltBy)},
			{A: "Platform", B: runtime.GOOS + "/" + runtime.GOARCH},
			{A: "Go", B: runtime.Version()},
		}

		cmd.Printf("%s %s\n\n", style.Fg(color.Purple)("▇▇▇"), style.Fg(color.Purple)(constant.App))
		for _, row := range rows {
			cmd.Printf("  %s %s\n", style.Faint(row.A+strings.Repeat(" ", 10-len(row.A))), style.Bold(row.B))
		}
	},
}
