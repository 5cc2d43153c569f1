package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TERRATEAM_DEV_MODE", "DEV_MODE", "SETUP_ENV_FILE", "GH_ORG",
		"SETUP_HOST", "SETUP_PORT",
		"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GITHUB_API_BASE_URL", "GITHUB_WEB_BASE_URL",
		"TERRATUNNEL_ENABLED", "TERRATUNNEL_EXCHANGE_URL",
		"SESSION_MAX_AGE", "SESSION_SWEEP_INTERVAL", "SETUP_HTTP_TIMEOUT",
		"TELEMETRY_ENABLED", "TELEMETRY_URL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		if val, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644))
}

func TestLoadConfig_DefaultsRequireClient(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)

	var coll ConfigurationErrorCollection
	require.ErrorAs(t, err, &coll)
	assert.Len(t, coll.Errors, 2)
	assert.Contains(t, err.Error(), "github.clientId")
}

func TestLoadConfig_DevModeDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEV_MODE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.DevMode)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.MaxAge)
	assert.Equal(t, time.Hour, cfg.Sessions.SweepInterval)
	assert.Equal(t, DefaultGitHubAPIBaseURL, cfg.GitHub.APIBaseURL)
	assert.Equal(t, "localhost:3000", cfg.Addr())
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  port: 8088
github:
  clientId: Iv1.abc
  clientSecret: shh
  apiBaseUrl: https://ghe.example.com/api/v3
sessions:
  maxAge: 2h
  sweepInterval: 5m
tunnel:
  enabled: false
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "Iv1.abc", cfg.GitHub.ClientID)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.APIBaseURL)
	assert.Equal(t, DefaultGitHubWebBaseURL, cfg.GitHub.WebBaseURL)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.MaxAge)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.SweepInterval)
	assert.False(t, cfg.Tunnel.Enabled)
	assert.False(t, cfg.DevMode)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
github:
  clientId: from-file
  clientSecret: from-file
`)
	t.Setenv("GITHUB_CLIENT_ID", "from-env")
	t.Setenv("SESSION_MAX_AGE", "90m")
	t.Setenv("TERRATEAM_DEV_MODE", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GitHub.ClientID)
	assert.Equal(t, "from-file", cfg.GitHub.ClientSecret)
	assert.Equal(t, 90*time.Minute, cfg.Sessions.MaxAge)
	assert.True(t, cfg.DevMode)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "server: [unclosed")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var cfgErr ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "parse", cfgErr.ErrorType)
	assert.Equal(t, configFileName, cfgErr.FileName)
	assert.Contains(t, cfgErr.DetailedError(), "Suggestions:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*SetupConfig)
		wantField string
	}{
		{
			name:      "bad port",
			mutate:    func(c *SetupConfig) { c.Server.Port = 70000 },
			wantField: "server.port",
		},
		{
			name:      "relative api url",
			mutate:    func(c *SetupConfig) { c.GitHub.APIBaseURL = "/api" },
			wantField: "github.apiBaseUrl",
		},
		{
			name:      "zero max age",
			mutate:    func(c *SetupConfig) { c.Sessions.MaxAge = 0 },
			wantField: "sessions.maxAge",
		},
		{
			name:      "tunnel url checked only when enabled",
			mutate:    func(c *SetupConfig) { c.Tunnel.ExchangeURL = "not a url" },
			wantField: "tunnel.exchangeUrl",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			cfg.DevMode = true
			tc.mutate(&cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantField)
		})
	}

	t.Run("tunnel disabled skips url check", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.DevMode = true
		cfg.Tunnel.Enabled = false
		cfg.Tunnel.ExchangeURL = ""
		assert.NoError(t, Validate(cfg))
	})
}

func TestGetDefaultConfigPath(t *testing.T) {
	orig := osUserHomeDir
	defer func() { osUserHomeDir = orig }()

	osUserHomeDir = func() (string, error) { return "/home/op", nil }

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/op", ".config/terrateam-setup"), path)
}

func TestLoadConfig_OverridesApplyBeforeValidation(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(t.TempDir(), func(c *SetupConfig) {
		c.DevMode = true
		c.Server.Port = 4000
	})
	require.NoError(t, err)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "localhost:4000", cfg.Addr())
}
