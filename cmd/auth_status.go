package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"basecamp-mcp/internal/config"
	"basecamp-mcp/internal/credentials"
)

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credential's state",
	Long: `Show whether a Basecamp credential is stored, where it lives, and when
the access token expires. Token values are never printed.`,
	RunE: runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := cfg.CredentialStore()
	if err != nil {
		return err
	}

	fmt.Printf("Credential file: %s\n", store.Path())

	record, err := store.Load()
	if errors.Is(err, credentials.ErrNotFound) {
		fmt.Printf("Status:          %s\n", text.FgYellow.Sprint("not authorized"))
		fmt.Println("\nRun 'basecamp-mcp auth login' to authorize.")
		return nil
	}
	if err != nil {
		return err
	}

	expiry := record.Expiry()
	switch {
	case record.ExpiresWithin(0):
		fmt.Printf("Status:          %s\n", text.FgYellow.Sprint("expired"))
		fmt.Printf("Expired:         %s\n", expiry.Local().Format(time.RFC1123))
		if record.RefreshToken != "" {
			fmt.Println("\nThe access token will be refreshed automatically on next use.")
		} else {
			fmt.Println("\nNo refresh token stored; run 'basecamp-mcp auth login' again.")
		}
	default:
		fmt.Printf("Status:          %s\n", text.FgGreen.Sprint("authorized"))
		fmt.Printf("Expires:         %s (%s)\n",
			expiry.Local().Format(time.RFC1123),
			time.Until(expiry).Round(time.Minute))
	}

	if record.Scope != "" {
		fmt.Printf("Scope:           %s\n", record.Scope)
	}
	return nil
}
