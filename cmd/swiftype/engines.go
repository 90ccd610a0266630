package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/swiftype"
)

func newEnginesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "engines", Short: "Manage engines"}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all engines",
			Args:  cobra.NoArgs,
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, _ []string) (*swiftype.Response, error) {
				return c.Engines(ctx)
			}),
		},
		&cobra.Command{
			Use:   "get ENGINE",
			Short: "Show one engine",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
				return c.Engine(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "create ENGINE",
			Short: "Create an engine",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
				return c.CreateEngine(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "delete ENGINE",
			Short: "Delete an engine and all its documents",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
				return c.DeleteEngine(ctx, args[0])
			}),
		},
	)
	return cmd
}
