package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/swiftype/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(a.out, "swiftype", version.String())
			return err
		},
	}
}
