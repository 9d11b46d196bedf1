package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

// downloadCmd is kept for users of other IPTV clients that offer it.
var downloadCmd = &cobra.Command{
	Use:    "download",
	Short:  "Download a movie or episode (not supported)",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(errors.New("downloads are not supported, stream with \"play\" instead"))
	},
}
