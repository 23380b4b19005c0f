package main

import (
	"fmt"

	rc "github.com/0xalexb/hjarta-rc"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "rcctl", rc.VersionString())

			return err //nolint:wrapcheck // writer errors are reported as is
		},
	}
}
