package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chapmanb/bcbio.run/internal/idempotent"
)

// NewCheckCommand reports whether declared outputs still need a run.
func NewCheckCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Report whether outputs exist and are non-empty (exit 0 = up to date)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			needs := false
			for _, p := range args {
				if idempotent.NeedsRun(p) {
					needs = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tneeds run\n", p)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tup to date\n", p)
			}
			if needs {
				return fmt.Errorf("outputs need a run")
			}
			return nil
		},
	}
}
