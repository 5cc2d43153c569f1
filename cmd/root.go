package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"terrateam-setup/internal/client"
	"terrateam-setup/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeUnreachable indicates the setup wizard could not be reached.
	ExitCodeUnreachable = 2
	// ExitCodeNotFound indicates the requested session does not exist.
	ExitCodeNotFound = 3
	// ExitCodeConfig indicates invalid configuration.
	ExitCodeConfig = 4
)

// rootCmd represents the base command for the terrateam-setup application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "terrateam-setup",
	Short: "Run the Terrateam setup wizard",
	Long: `terrateam-setup serves the one-time setup wizard that connects a Terrateam
deployment to GitHub. It exchanges the OAuth code for the operator's identity,
obtains tunnel credentials and writes them into the deployment's .env file.

Use 'serve' to start the wizard, 'sessions' to inspect sessions held by a
running wizard and 'env apply' to write a session's credentials.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "terrateam-setup version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if client.IsConnectionError(err) {
		return ExitCodeUnreachable
	}

	if client.IsNotFound(err) {
		return ExitCodeNotFound
	}

	var cfgErrs config.ConfigurationErrorCollection
	if errors.As(err, &cfgErrs) {
		return ExitCodeConfig
	}

	var cfgErr config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfig
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
