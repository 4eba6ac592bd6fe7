package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"basecamp-mcp/internal/auth"
	"basecamp-mcp/internal/config"
)

// Login-specific flags
var (
	loginNoBrowser bool
	loginPort      int
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize with Basecamp via the browser",
	Long: `Authorize with Basecamp using the OAuth browser flow.

A temporary local server receives the authorization redirect, the code is
exchanged for tokens, and the credential is stored for 'serve' to use.
A running 'serve' picks the new credential up automatically.

Examples:
  basecamp-mcp auth login                # open the browser automatically
  basecamp-mcp auth login --no-browser   # print the URL to open manually`,
	RunE: runAuthLogin,
}

func init() {
	authLoginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false,
		"Print the authorization URL instead of opening a browser")
	authLoginCmd.Flags().IntVar(&loginPort, "port", auth.DefaultCallbackPort,
		"Local port for the authorization callback")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := cfg.CredentialStore()
	if err != nil {
		return err
	}
	exchange := auth.NewExchange(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)

	callback := auth.NewCallbackServer(loginPort)
	if _, err := callback.Start(ctx); err != nil {
		return &authFlowError{err}
	}
	defer callback.Stop()

	state := uuid.NewString()
	authURL := exchange.AuthCodeURL(state)

	if loginNoBrowser {
		fmt.Println("Open this URL in your browser to authorize:")
		fmt.Printf("\n  %s\n\n", authURL)
	} else {
		fmt.Println("Opening your browser to authorize with Basecamp...")
		if err := auth.OpenBrowser(authURL); err != nil {
			fmt.Println("Could not open a browser. Open this URL manually:")
			fmt.Printf("\n  %s\n\n", authURL)
		}
	}

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithSuffix(" Waiting for authorization..."))
	spin.Start()
	result, err := callback.Wait(ctx)
	spin.Stop()
	if err != nil {
		return &authFlowError{err}
	}

	if result.IsError() {
		return &authFlowError{fmt.Errorf("authorization denied: %s (%s)",
			result.Error, result.ErrorDescription)}
	}
	if result.State != state {
		return &authFlowError{fmt.Errorf("authorization state mismatch, possible request forgery")}
	}

	record, err := exchange.ExchangeCode(ctx, result.Code)
	if err != nil {
		return &authFlowError{fmt.Errorf("token exchange failed: %w", err)}
	}
	if err := store.Save(record); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	color.Green("Authorization complete.")
	fmt.Printf("Credential stored in %s\n", store.Path())
	fmt.Printf("Access token valid until %s\n",
		record.Expiry().Local().Format(time.RFC1123))
	return nil
}
