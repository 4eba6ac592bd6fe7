package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"basecamp-mcp/internal/auth"
	"basecamp-mcp/internal/credentials"
	"basecamp-mcp/pkg/logging"
)

// DefaultConfigPath is where the YAML config lives, relative to the user's
// home directory.
const DefaultConfigPath = ".config/basecamp-mcp/config.yaml"

// Config holds everything the bridge needs to talk to Basecamp. Values are
// layered: built-in defaults, then the YAML config file, then a .env file in
// the working directory, then process environment variables. Later layers
// win.
type Config struct {
	// ClientID and ClientSecret identify the OAuth application registered at
	// launchpad.37signals.com.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// AccountID is the numeric Basecamp account the bridge is scoped to.
	AccountID string `yaml:"account_id"`

	// RedirectURI must match the OAuth application's registered redirect.
	RedirectURI string `yaml:"redirect_uri"`

	// UserAgent identifies this integration to Basecamp, which requires a
	// contact address in the value.
	UserAgent string `yaml:"user_agent"`

	// CredentialsFile overrides where tokens are persisted.
	CredentialsFile string `yaml:"credentials_file"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// envVars maps environment variable names onto config fields.
var envVars = map[string]func(*Config, string){
	"BASECAMP_CLIENT_ID":        func(c *Config, v string) { c.ClientID = v },
	"BASECAMP_CLIENT_SECRET":    func(c *Config, v string) { c.ClientSecret = v },
	"BASECAMP_ACCOUNT_ID":       func(c *Config, v string) { c.AccountID = v },
	"BASECAMP_REDIRECT_URI":     func(c *Config, v string) { c.RedirectURI = v },
	"USER_AGENT":                func(c *Config, v string) { c.UserAgent = v },
	"BASECAMP_CREDENTIALS_FILE": func(c *Config, v string) { c.CredentialsFile = v },
	"BASECAMP_LOG_LEVEL":        func(c *Config, v string) { c.LogLevel = v },
}

func defaults() *Config {
	return &Config{
		RedirectURI: fmt.Sprintf("http://localhost:%d", auth.DefaultCallbackPort),
		LogLevel:    "info",
	}
}

// Load builds the effective configuration. configPath overrides the default
// YAML location; pass "" for the default. A missing config file or .env file
// is not an error, missing required values are caught by Validate.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, DefaultConfigPath)
		}
	}
	if path != "" {
		if err := loadYAML(path, cfg, configPath != ""); err != nil {
			return nil, err
		}
	}

	// A .env in the working directory feeds the environment without
	// clobbering variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Debug("Config", "No .env file loaded: %v", err)
	}

	for name, apply := range envVars {
		if v := os.Getenv(name); v != "" {
			apply(cfg, v)
		}
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the values every command needs. The error names each
// missing key so the user can fix all of them at once.
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id (BASECAMP_CLIENT_ID)")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret (BASECAMP_CLIENT_SECRET)")
	}
	if c.AccountID == "" {
		missing = append(missing, "account_id (BASECAMP_ACCOUNT_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CredentialStore opens the credential store at the configured path.
func (c *Config) CredentialStore() (*credentials.Store, error) {
	return credentials.NewStore(c.CredentialsFile)
}
