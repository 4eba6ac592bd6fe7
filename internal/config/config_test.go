package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basecamp-mcp/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitDiscard()
	os.Exit(m.Run())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.RedirectURI)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
client_id: yaml-id
client_secret: yaml-secret
account_id: "12345"
user_agent: "Acme bridge (ops@acme.test)"
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-id", cfg.ClientID)
	assert.Equal(t, "yaml-secret", cfg.ClientSecret)
	assert.Equal(t, "12345", cfg.AccountID)
	assert.Equal(t, "Acme bridge (ops@acme.test)", cfg.UserAgent)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
client_id: yaml-id
account_id: "1"
`)
	t.Setenv("BASECAMP_CLIENT_ID", "env-id")
	t.Setenv("BASECAMP_ACCOUNT_ID", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "2", cfg.AccountID)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "client_id: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "client_id")
	assert.ErrorContains(t, err, "client_secret")
	assert.ErrorContains(t, err, "account_id")

	cfg = &Config{ClientID: "a", ClientSecret: "b", AccountID: "c"}
	assert.NoError(t, cfg.Validate())
}
