// Command rcctl inspects remote parameter sources, serves them over HTTP and produces
// compressed parameter values.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/0xalexb/hjarta-rc/logging"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "rcctl",
		Short: "Remote config resolver tooling",
		Long: `rcctl reads parameter snapshots from files, parameter servers or S3,
prints how each value is classified, serves a snapshot over HTTP and
compresses values for publishing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config := logging.LoggerConfig{Level: flags.logLevel, Format: flags.logFormat}
			slog.SetDefault(logging.NewLogger(config, cmd.ErrOrStderr()))
		},
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", logging.FormatText, "Log format (text, json)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newCompressCmd())

	return root
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
