package cmd

import (
	"github.com/spf13/cobra"
)

// authCmd groups the credential lifecycle subcommands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Basecamp authorization",
	Long: `Manage the OAuth credential used to talk to Basecamp.

'auth login' runs the browser authorization flow and stores the resulting
tokens. 'auth status' shows the stored credential's state, and 'auth logout'
removes it.`,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}
