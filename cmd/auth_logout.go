package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"basecamp-mcp/internal/config"
)

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	Long: `Delete the stored Basecamp credential from disk.

This does not revoke the token with Basecamp; revoke the application's
access at launchpad.37signals.com if needed.`,
	RunE: runAuthLogout,
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := cfg.CredentialStore()
	if err != nil {
		return err
	}

	if err := store.Delete(); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	fmt.Printf("Removed credential at %s\n", store.Path())
	return nil
}
