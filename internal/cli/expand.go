package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chapmanb/bcbio.run/internal/listfile"
)

// NewExpandCommand expands list files into concrete paths with detected
// formats.
func NewExpandCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <list-file>...",
		Short: "Expand line-oriented list files into concrete file paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, list := range args {
				entries, err := listfile.Expand(list)
				if err != nil {
					return err
				}
				for _, entry := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entry, listfile.Detect(entry))
				}
			}
			return nil
		},
	}
}
