package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// DefaultEndpoint is the wizard address used when no endpoint is configured.
const DefaultEndpoint = "http://localhost:3000"

// EndpointEnvVar overrides DefaultEndpoint.
const EndpointEnvVar = "SETUP_ENDPOINT"

// CommandFlags holds the flag values shared by commands that talk to a
// running wizard.
type CommandFlags struct {
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Endpoint is the wizard base URL
	Endpoint string
}

// GetDefaultEndpoint returns the endpoint from the environment, falling
// back to DefaultEndpoint.
func GetDefaultEndpoint() string {
	if endpoint := os.Getenv(EndpointEnvVar); endpoint != "" {
		return endpoint
	}
	return DefaultEndpoint
}

// RegisterCommonFlags registers the shared flags on cmd:
//   - --output/-o: Output format (table, json, yaml), default: "table"
//   - --no-headers: Suppress header row in table output
//   - --quiet/-q: Suppress non-essential output
//   - --endpoint: Wizard base URL (env: SETUP_ENDPOINT)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.Endpoint, "endpoint", GetDefaultEndpoint(), "Setup wizard URL (env: SETUP_ENDPOINT)")
}
