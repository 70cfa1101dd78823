package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"covlens/internal/config"
	"covlens/internal/logger"
	"covlens/internal/render"
	"covlens/internal/session"
	"covlens/internal/watch"
)

// NewWatchCommand creates the "watch" subcommand.
func NewWatchCommand() *cobra.Command {
	var (
		reportPath string
		rootPath   string
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload and re-print the summary whenever the tracefile changes.",
		Long: `Watch the tracefile and rerun the reconciliation pass on every change.
Each reload starts a fresh session; summaries from the previous load are
discarded.

Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlags(cmd, cfg, &reportPath, &rootPath, nil)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess := session.New(session.Config{SearchDirs: cfg.SearchDirs})
			renderer := render.New(os.Stdout, !noColor)

			reload := func() {
				res, err := loadReport(ctx, sess, reportPath, rootPath)
				if err != nil {
					logger.Error("Reload failed: %v", err)
					return
				}
				renderer.Summary(res)
			}
			reload()

			w, err := watch.New(reportPath, time.Duration(cfg.WatchDebounceMs)*time.Millisecond)
			if err != nil {
				return err
			}
			logger.Info("Watching %s", reportPath)
			if err := w.Run(ctx, reload); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "coverage/lcov.info", "LCOV tracefile to watch")
	cmd.Flags().StringVar(&rootPath, "root", "", "Workspace root (default: current directory)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")

	return cmd
}
