package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"covlens/internal/config"
	"covlens/internal/lcov"
	"covlens/internal/logger"
	"covlens/internal/render"
	"covlens/internal/report"
	"covlens/internal/session"
)

// NewLoadCommand creates the "load" subcommand.
func NewLoadCommand() *cobra.Command {
	var (
		reportPath  string
		rootPath    string
		markdownOut string
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a tracefile and print the coverage summary.",
		Long: `Load an LCOV tracefile, reconcile its records against the workspace and
print the aggregate summary plus per-file coverage.

Configuration:
  Default values are loaded from covlens.yaml. Command line flags override
  the config file values.

Examples:
  # Load using covlens.yaml defaults
  covlens load

  # Explicit report and workspace root
  covlens load --report coverage/lcov.info --root .

  # Also write a markdown report
  covlens load --markdown-out reports/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlags(cmd, cfg, &reportPath, &rootPath, &markdownOut)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess := session.New(session.Config{SearchDirs: cfg.SearchDirs})
			res, err := loadReport(ctx, sess, reportPath, rootPath)
			if err != nil {
				return err
			}

			render.New(os.Stdout, !noColor).Summary(res)

			if markdownOut != "" {
				path, err := report.NewMarkdownReporter(markdownOut).Save(res)
				if err != nil {
					return err
				}
				logger.Info("Markdown report written to %s", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "coverage/lcov.info", "LCOV tracefile to load")
	cmd.Flags().StringVar(&rootPath, "root", "", "Workspace root (default: current directory)")
	cmd.Flags().StringVar(&markdownOut, "markdown-out", "", "Directory to write a markdown report into")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")

	return cmd
}

// applyFlags merges config values under flags, flags winning only when
// explicitly set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, reportPath, rootPath, markdownOut *string) {
	if !cmd.Flags().Changed("report") && cfg.Report != "" {
		*reportPath = cfg.Report
	}
	if rootPath != nil && !cmd.Flags().Changed("root") {
		*rootPath = cfg.Root
	}
	if markdownOut != nil && !cmd.Flags().Changed("markdown-out") {
		*markdownOut = cfg.MarkdownOut
	}
	if !cmd.Root().PersistentFlags().Changed("log-level") {
		logger.Init(cfg.LogLevel)
	}
}

// loadReport parses the tracefile and runs one reconciliation pass. Parse
// failures are the one error class surfaced to the user; an aborted pass
// returns whatever was resolved before the signal.
func loadReport(ctx context.Context, sess *session.Session, reportPath, rootPath string) (*session.Result, error) {
	if rootPath == "" {
		rootPath = "."
	}
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace root: %w", err)
	}

	records, err := lcov.Parse(reportPath)
	if err != nil {
		switch {
		case errors.Is(err, lcov.ErrNotFound):
			return nil, fmt.Errorf("tracefile %s does not exist", reportPath)
		case errors.Is(err, lcov.ErrParse):
			return nil, fmt.Errorf("tracefile %s contains no coverage records", reportPath)
		}
		return nil, err
	}

	res, err := sess.Load(ctx, records, root)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return res, nil
}
