package app

import (
	"github.com/spf13/cobra"

	"covlens/internal/logger"
)

// NewCovlensCommand creates the root command for the covlens tool.
func NewCovlensCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "covlens",
		Short: "Reconcile LCOV coverage reports with a workspace.",
		Long: `Covlens matches the file records of an LCOV tracefile against the files
of a workspace and shows line, branch and function coverage per file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("log-level") {
				logger.Init(logLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewLoadCommand())
	cmd.AddCommand(NewShowCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
