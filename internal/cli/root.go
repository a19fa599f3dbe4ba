// Package cli wires the bcbio-run command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/chapmanb/bcbio.run/internal/logging"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command for the bcbio-run CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bcbio-run",
		Short:         "Run external pipeline commands idempotently and transactionally",
		Long:          "bcbio-run skips commands whose outputs already exist and stages fresh outputs in a private directory, promoting them atomically only on success.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to TOML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewExpandCommand(opts))

	return cmd
}
