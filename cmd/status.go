package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"terrateam-setup/internal/cli"
	"terrateam-setup/internal/client"
)

var statusFlags cli.CommandFlags

// statusCmd checks that a setup wizard is reachable.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a setup wizard is running",
	Long: `Calls the wizard's health endpoint and reports how many sessions it holds.

Exits with code 2 when no wizard answers at the endpoint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := cli.NewPrinter(cmd.OutOrStdout(), statusFlags)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		c := client.New(statusFlags.Endpoint, nil)
		var health *client.Health
		err = cli.WithSpinner(cmd.ErrOrStderr(), statusFlags.Quiet, "Checking wizard...", "Wizard is not reachable", func() (err error) {
			health, err = c.Health(ctx)
			return err
		})
		if err != nil {
			return cli.FriendlyError(statusFlags.Endpoint, err)
		}
		return printer.Health(statusFlags.Endpoint, health)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	cli.RegisterCommonFlags(statusCmd, &statusFlags)
}
