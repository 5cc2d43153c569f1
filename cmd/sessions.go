package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"terrateam-setup/internal/cli"
	"terrateam-setup/internal/client"
)

var (
	sessionsFlags   cli.CommandFlags
	sessionsShowKey bool
)

// sessionsCmd groups the session inspection commands.
var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Inspect sessions held by a running setup wizard",
	Long: `Lists, shows and clears the sessions a running setup wizard holds.

Sessions are created when an operator completes the GitHub login and carry
the operator's identity and tunnel credentials until they expire.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessions(cmd, func(ctx context.Context, c *client.Client, p *cli.Printer) error {
			var list *client.SessionList
			err := cli.WithSpinner(cmd.ErrOrStderr(), sessionsFlags.Quiet, "Fetching sessions...", "Failed to fetch sessions", func() (err error) {
				list, err = c.ListSessions(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return p.Sessions(list)
		})
	},
}

var sessionsGetCmd = &cobra.Command{
	Use:   "get <session-id>",
	Short: "Show one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessions(cmd, func(ctx context.Context, c *client.Client, p *cli.Printer) error {
			var detail *client.SessionDetail
			err := cli.WithSpinner(cmd.ErrOrStderr(), sessionsFlags.Quiet, "Fetching session...", "Failed to fetch session", func() (err error) {
				detail, err = c.GetSession(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			return p.Session(detail, sessionsShowKey)
		})
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:     "clear <session-id>",
	Aliases: []string{"delete", "rm"},
	Short:   "Clear a session and its credentials",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessions(cmd, func(ctx context.Context, c *client.Client, p *cli.Printer) error {
			res, err := c.ClearSession(ctx, args[0])
			if err != nil {
				return err
			}
			return p.Cleared(res)
		})
	},
}

// runSessions builds the client and printer for a sessions subcommand and
// maps client errors to actionable messages.
func runSessions(cmd *cobra.Command, fn func(context.Context, *client.Client, *cli.Printer) error) error {
	printer, err := cli.NewPrinter(cmd.OutOrStdout(), sessionsFlags)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := client.New(sessionsFlags.Endpoint, nil)
	return cli.FriendlyError(sessionsFlags.Endpoint, fn(ctx, c, printer))
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsGetCmd, sessionsClearCmd)

	cli.RegisterCommonFlags(sessionsCmd, &sessionsFlags)
	sessionsGetCmd.Flags().BoolVar(&sessionsShowKey, "show-key", false, "Print the tunnel API key unmasked")
}
