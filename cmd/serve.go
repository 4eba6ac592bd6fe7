package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basecamp-mcp/internal/auth"
	"basecamp-mcp/internal/basecamp"
	"basecamp-mcp/internal/config"
	"basecamp-mcp/internal/server"
	"basecamp-mcp/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run the MCP server over stdin/stdout for an MCP client to connect to.

Requires a stored credential; run 'basecamp-mcp auth login' first. Expired
access tokens are refreshed automatically while serving.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stdout carries the MCP protocol; all logging goes to stderr.
	logging.Init(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	store, err := cfg.CredentialStore()
	if err != nil {
		return err
	}

	exchange := auth.NewExchange(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
	manager := auth.NewManager(store, exchange)
	defer manager.Close()

	// Pick up credentials written by 'auth login' in another terminal while
	// serving.
	if err := manager.StartWatcher(); err != nil {
		logging.Warn("Server", "Credential file watcher unavailable: %v", err)
	}

	client := basecamp.NewClient(cfg.AccountID, manager,
		basecamp.WithUserAgent(cfg.UserAgent))

	s := server.New(client, rootCmd.Version)
	if err := s.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}
