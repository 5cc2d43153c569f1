package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"terrateam-setup/internal/cli"
	"terrateam-setup/internal/client"
)

var (
	envFlags     cli.CommandFlags
	envSessionID string
)

// envCmd groups the env file commands.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage the deployment's environment file",
}

var envApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write a session's tunnel credentials into the env file",
	Long: `Asks the running setup wizard to merge the tunnel credentials of a session
into its env file. Existing TERRATUNNEL_API_KEY and TERRAT_UI_BASE lines are
replaced; every other line is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := cli.NewPrinter(cmd.OutOrStdout(), envFlags)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		c := client.New(envFlags.Endpoint, nil)
		var res *client.FinalizeResult
		err = cli.WithSpinner(cmd.ErrOrStderr(), envFlags.Quiet, "Writing credentials...", "Failed to write credentials", func() (err error) {
			res, err = c.Finalize(ctx, envSessionID)
			return err
		})
		if err != nil {
			return cli.FriendlyError(envFlags.Endpoint, err)
		}
		return printer.Finalized(res)
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envApplyCmd)

	cli.RegisterCommonFlags(envCmd, &envFlags)
	envApplyCmd.Flags().StringVar(&envSessionID, "session", "", "Session id whose credentials are written")
	_ = envApplyCmd.MarkFlagRequired("session")
}
