package app

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.Join(lines, "\n")), 0o644))
}

func devConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir,
		"server:",
		"  host: 127.0.0.1",
		"  port: 3000",
		"envFile: "+filepath.Join(dir, ".env"),
		"telemetry:",
		"  enabled: false",
	)
	cfg := NewConfig(false, true, dir)
	cfg.Silent = true
	return cfg
}

func TestNewApplication_DevMode(t *testing.T) {
	application, err := NewApplication(devConfig(t))
	require.NoError(t, err)

	require.NotNil(t, application.config.SetupConfig)
	assert.True(t, application.config.SetupConfig.DevMode)

	services := application.Services()
	assert.NotNil(t, services.Store)
	assert.NotNil(t, services.Engine)
	assert.NotNil(t, services.Wizard)
	assert.NotNil(t, services.Server)
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	for _, key := range []string{"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "TERRATEAM_DEV_MODE", "DEV_MODE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := NewConfig(false, false, t.TempDir())
	cfg.Silent = true

	_, err := NewApplication(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestConfig_Overrides(t *testing.T) {
	application, err := NewApplication(func() *Config {
		cfg := devConfig(t)
		cfg.Host = "127.0.0.1"
		cfg.Port = 4123
		cfg.Debug = true
		return cfg
	}())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4123", application.config.SetupConfig.Addr())
	assert.Equal(t, "debug", application.config.SetupConfig.Logging.Level)
}

func TestApplication_RunDevFlow(t *testing.T) {
	cfg := devConfig(t)
	cfg.Port = freePort(t)
	application, err := NewApplication(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	base := "http://" + application.config.SetupConfig.Addr()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/probot/oauth-exchange", "application/json",
		strings.NewReader(`{"code":"abc","sessionId":"s1"}`))
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "mock_token_abc", result["access_token"])

	resp, err = http.Post(base+"/probot/api/finalize", "application/json", strings.NewReader(`{"sessionId":"s1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(application.config.SetupConfig.EnvFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TERRATUNNEL_API_KEY=dev_api_key_")
	assert.Contains(t, string(data), "TERRAT_UI_BASE=https://dev-tunnel-")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not stop")
	}
}
