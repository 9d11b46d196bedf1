package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/auth"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/network"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/util"
	"github.com/xtplay/xtplay/xtream"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().String("host", "", "Panel address, e.g. http://panel.example:8080")
	loginCmd.Flags().StringP("username", "u", "", "Panel username")
	loginCmd.Flags().StringP("password", "p", "", "Panel password")
	loginCmd.Flags().Bool("skip-check", false, "Save the credentials without contacting the panel")
}

// loginCmd verifies panel credentials and saves them.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Connect to an Xtream Codes panel",
	Long:  "Connect to an Xtream Codes panel. The password is kept in the system keyring.",
	Run: func(cmd *cobra.Command, args []string) {
		creds := auth.Credentials{
			Host:     lo.Must(cmd.Flags().GetString("host")),
			Username: lo.Must(cmd.Flags().GetString("username")),
			Password: lo.Must(cmd.Flags().GetString("password")),
		}

		if creds.Host == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Panel address:",
				Default: viper.GetString(key.PanelHost),
			}, &creds.Host, survey.WithValidator(survey.Required)))
		}

		if creds.Username == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Username:",
				Default: viper.GetString(key.PanelUsername),
			}, &creds.Username, survey.WithValidator(survey.Required)))
		}

		if creds.Password == "" {
			handleErr(survey.AskOne(&survey.Password{
				Message: "Password:",
			}, &creds.Password, survey.WithValidator(survey.Required)))
		}

		handleErr(creds.Validate())

		if !lo.Must(cmd.Flags().GetBool("skip-check")) {
			client, err := xtream.New(creds.Host, creds.Username, creds.Password, network.New(viper.GetBool(key.PanelTLSFingerprint)))
			handleErr(err)

			ctx, cancel := context.WithTimeout(cmd.Context(), panelTimeout)
			defer cancel()

			erase := util.PrintErasable(fmt.Sprintf("%s Checking credentials...", icon.Get(icon.Progress)))
			account, err := client.Authenticate(ctx)
			erase()
			handleErr(err)

			creds.Host = client.Host()
			printAccount(account)
		}

		handleErr(auth.Save(creds))
		fmt.Printf(
			"%s logged in to %s as %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(creds.Host),
			style.Fg(color.Yellow)(creds.Username),
		)
	},
}

func printAccount(account *xtream.Account) {
	info := account.UserInfo

	expires := "never"
	if exp := info.ExpDate.String(); exp != "" && exp != "0" {
		if sec, err := strconv.ParseInt(exp, 10, 64); err == nil {
			expires = time.Unix(sec, 0).Local().Format(time.DateOnly)
		}
	}

	fmt.Printf(
		"%s %s  %s %s  %s %d/%d\n",
		style.Faint("status"), info.Status,
		style.Faint("expires"), expires,
		style.Faint("connections"), info.ActiveConnections, info.MaxConnections,
	)
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// logoutCmd forgets the saved panel.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved panel credentials",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.Delete())
		fmt.Printf("%s logged out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
