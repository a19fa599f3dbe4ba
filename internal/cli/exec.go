package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chapmanb/bcbio.run/internal/logging"
	"github.com/chapmanb/bcbio.run/internal/process"
	"github.com/chapmanb/bcbio.run/internal/run"
)

// NewExecCommand runs one external command against a declared output.
func NewExecCommand(root *RootOptions) *cobra.Command {
	var (
		output   string
		sideExts []string
	)

	cmd := &cobra.Command{
		Use:   "exec --output <path> -- <command...>",
		Short: "Run a command idempotently with transactional output staging",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(root.ConfigPath)
			if err != nil {
				return err
			}
			exts := sideExts
			if len(exts) == 0 {
				exts = cfg.SideExts
			}
			logger := newLogger(root, cfg)

			runner := run.NewRunner(logger)
			cmdline := strings.Join(args, " ")
			if _, err := runner.RunCommandWithExts(cmd.Context(), output, cmdline, normalizeExts(exts)); err != nil {
				var cmdErr *process.CommandError
				if errors.As(err, &cmdErr) {
					os.Exit(exitStatus(cmdErr.ExitCode))
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "declared output file the command produces")
	cmd.Flags().StringArrayVar(&sideExts, "side-ext", nil, "side-extension files promoted with the output (e.g. .tbi)")
	cmd.MarkFlagRequired("output")

	return cmd
}

func newLogger(root *RootOptions, cfg Config) zerolog.Logger {
	logger := logging.New("bcbio-run")
	level := cfg.LogLevel
	if root.LogLevel != "" {
		level = root.LogLevel
	}
	if lvl, ok := logging.ParseLevel(level); ok {
		logger = logger.Level(lvl)
	}
	return logger
}

// exitStatus mirrors the failed command's exit code, keeping zero for
// the success path only.
func exitStatus(code int) int {
	if code <= 0 {
		return 1
	}
	return code
}
