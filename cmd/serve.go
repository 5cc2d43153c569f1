package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"terrateam-setup/internal/app"
)

var (
	serveDebug      bool
	serveDevMode    bool
	serveConfigPath string
	serveHost       string
	servePort       int
)

// serveCmd starts the setup wizard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the setup wizard",
	Long: `Starts the setup wizard's HTTP server.

The wizard holds OAuth sessions in memory only; they expire after 24 hours
and are lost when the process stops.

Configuration:
  Settings are read from config.yaml in the configuration directory
  (default ~/.config/terrateam-setup), then from environment variables
  such as GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET and TERRATEAM_DEV_MODE,
  then from the flags below.

Development mode (--dev or TERRATEAM_DEV_MODE=true) makes no outbound calls
and returns mock credentials.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveDevMode, serveConfigPath)
	cfg.Host = serveHost
	cfg.Port = servePort

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveDevMode, "dev", false, "Enable development mode (mock OAuth and tunnel responses)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory path")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides configuration)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides configuration)")
}
