package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"covlens/internal/config"
	"covlens/internal/render"
	"covlens/internal/session"
)

// NewShowCommand creates the "show" subcommand.
func NewShowCommand() *cobra.Command {
	var (
		reportPath string
		rootPath   string
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a source file annotated with its coverage.",
		Long: `Load the tracefile and print <file> with a coverage gutter: executed and
missed lines, function declarations, and branch outcomes.

The file argument does not have to match the tracefile's spelling of the
path; suffix and filename matching apply.

Examples:
  covlens show src/util.ts
  covlens show --report build/lcov.info internal/parser.go`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlags(cmd, cfg, &reportPath, &rootPath, nil)

			sess := session.New(session.Config{SearchDirs: cfg.SearchDirs})
			if _, err := loadReport(context.Background(), sess, reportPath, rootPath); err != nil {
				return err
			}

			query, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("invalid file path: %w", err)
			}
			items := sess.DetailsForFile(query)
			if items == nil {
				// Fall back to the spelling as given; relative queries can
				// suffix-match a stored identity the absolute form misses.
				items = sess.DetailsForFile(args[0])
			}
			if items == nil {
				return fmt.Errorf("no coverage detail for %s", args[0])
			}

			src := query
			if _, err := os.Stat(src); err != nil {
				src = args[0]
			}
			return render.New(os.Stdout, !noColor).Source(src, items)
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "coverage/lcov.info", "LCOV tracefile to load")
	cmd.Flags().StringVar(&rootPath, "root", "", "Workspace root (default: current directory)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")

	return cmd
}
