package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"basecamp-mcp/internal/auth"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can distinguish auth problems from general failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// configPath is the --config persistent flag value.
var configPath string

// rootCmd is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "basecamp-mcp",
	Short: "Bridge AI tool calls to the Basecamp 3 API",
	Long: `basecamp-mcp exposes Basecamp 3 (projects, todos, messages, card tables,
documents and more) as MCP tools over stdio, handling OAuth credential
refresh and API pagination transparently.

Authorize once with 'basecamp-mcp auth login', then point your MCP client
at 'basecamp-mcp serve'.`,
	// SilenceUsage prevents cobra from printing usage on errors the
	// application already reports.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command, injected from main at
// build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI and exits with a semantic exit code on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "basecamp-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// authFlowError marks a failure of the interactive OAuth flow.
type authFlowError struct{ err error }

func (e *authFlowError) Error() string { return e.err.Error() }
func (e *authFlowError) Unwrap() error { return e.err }

func getExitCode(err error) int {
	if errors.Is(err, auth.ErrAuthenticationRequired) {
		return ExitCodeAuthRequired
	}

	var flowErr *authFlowError
	if errors.As(err, &flowErr) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default is $HOME/.config/basecamp-mcp/config.yaml)")
}
