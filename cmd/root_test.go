package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"terrateam-setup/internal/client"
	"terrateam-setup/internal/config"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	assert.Equal(t, testVersion, rootCmd.Version)
	assert.Equal(t, testVersion, GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "terrateam-setup", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "terrateam-setup version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})

	assert.NoError(t, testCmd.Execute())
	assert.Equal(t, "terrateam-setup version 1.0.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}

	for _, expected := range []string{"version", "serve", "sessions", "env"} {
		assert.True(t, found[expected], "expected subcommand %q", expected)
	}
}

func TestGetExitCode(t *testing.T) {
	var cfgErrs config.ConfigurationErrorCollection
	cfgErrs.AddField("server.port", "must be between 1 and 65535")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: ExitCodeError},
		{name: "unreachable", err: &client.ConnectionError{URL: "http://x", Err: errors.New("refused")}, want: ExitCodeUnreachable},
		{name: "not found", err: fmt.Errorf("wrapped: %w", &client.APIError{StatusCode: http.StatusNotFound}), want: ExitCodeNotFound},
		{name: "server error", err: &client.APIError{StatusCode: http.StatusInternalServerError}, want: ExitCodeError},
		{name: "config collection", err: fmt.Errorf("failed to load configuration: %w", cfgErrs), want: ExitCodeConfig},
		{name: "config error", err: config.ConfigurationError{ErrorType: "parse"}, want: ExitCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
