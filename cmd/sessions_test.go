package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrateam-setup/internal/cli"
	"terrateam-setup/internal/envfile"
	"terrateam-setup/internal/session"
	"terrateam-setup/internal/wizard"
)

// startWizard serves a real wizard handler backed by a seeded store.
func startWizard(t *testing.T) (string, *session.Store, string) {
	t.Helper()
	store := session.NewStore()
	store.Put("s1",
		session.TunnelCredential{TunnelID: "t1", TunnelURL: "t1.tunnel.example", APIKey: "key-123456789"},
		session.UserIdentity{Login: "octo", ID: 42})

	envPath := filepath.Join(t.TempDir(), ".env")
	handler := wizard.NewHandler(wizard.Options{
		Sessions: store,
		EnvFile:  envfile.New(envPath),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL, store, envPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		sessionsFlags = sessionsFlagsDefaults()
		envFlags = sessionsFlagsDefaults()
		statusFlags = sessionsFlagsDefaults()
		sessionsShowKey = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// sessionsFlagsDefaults resets flag state, which cobra keeps between
// executions of the same command tree.
func sessionsFlagsDefaults() cli.CommandFlags {
	return cli.CommandFlags{OutputFormat: string(cli.OutputFormatTable)}
}

func TestSessionsList(t *testing.T) {
	url, _, _ := startWizard(t)

	out, err := execute(t, "sessions", "list", "-q", "--endpoint", url, "-o", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(1), decoded["totalSessions"])
	assert.NotContains(t, out, "key-123456789")
}

func TestSessionsGet(t *testing.T) {
	url, _, _ := startWizard(t)

	out, err := execute(t, "sessions", "get", "s1", "-q", "--endpoint", url)
	require.NoError(t, err)
	assert.Contains(t, out, "octo")
	assert.NotContains(t, out, "key-123456789")

	_, err = execute(t, "sessions", "get", "missing", "-q", "--endpoint", url)
	require.Error(t, err)
	assert.Equal(t, ExitCodeNotFound, getExitCode(err))
}

func TestSessionsClear(t *testing.T) {
	url, store, _ := startWizard(t)

	out, err := execute(t, "sessions", "clear", "s1", "--endpoint", url)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	assert.Equal(t, 0, store.Len())
}

func TestEnvApply(t *testing.T) {
	url, _, envPath := startWizard(t)

	out, err := execute(t, "env", "apply", "--session", "s1", "-q", "--endpoint", url)
	require.NoError(t, err)
	assert.Contains(t, out, "TERRATUNNEL_API_KEY, TERRAT_UI_BASE")

	content, err := envfile.New(envPath).Read()
	require.NoError(t, err)
	assert.Equal(t, "TERRATUNNEL_API_KEY=key-123456789\nTERRAT_UI_BASE=https://t1.tunnel.example\n", content)
}

func TestSessionsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := execute(t, "sessions", "list", "-q", "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Equal(t, ExitCodeUnreachable, getExitCode(err))
}

func TestStatus(t *testing.T) {
	url, _, _ := startWizard(t)

	out, err := execute(t, "status", "-q", "--endpoint", url)
	require.NoError(t, err)
	assert.Contains(t, out, "is ok (1 active sessions)")

	out, err = execute(t, "status", "-q", "--endpoint", url, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, out)
}

func TestStatusUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := execute(t, "status", "-q", "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Equal(t, ExitCodeUnreachable, getExitCode(err))
}
