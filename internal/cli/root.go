package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the hindsight CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hindsight",
		Short: "Hindsight - historical entity-state reporting",
		Long: "A scheduled batch job that reconstructs historical entity-state counts\n" +
			"from the audit trail, maintains per-product time-series files, and\n" +
			"samples user-defined series on a load-distributed schedule.",
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewCollectCommand(opts))

	return cmd
}
