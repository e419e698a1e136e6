package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fgasupport/internal/config"
	"fgasupport/internal/logging"
	"fgasupport/internal/pipeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		debug   bool
		dryRun  bool
		offline bool
		publish bool
		kind    string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the catalogs, refresh changed entries, and render thumbnails",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kinds, err := parseKinds(kind)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			runID := uuid.NewString()
			logger, logPath, err := newRunLogger(cfg, runID)
			if err != nil {
				return err
			}

			summary, runErr := pipeline.New(cfg, logger).Run(cmd.Context(), pipeline.Options{
				RunID:   runID,
				Kinds:   kinds,
				Debug:   debug,
				DryRun:  dryRun,
				Offline: offline,
				Publish: publish,
			})

			out := cmd.OutOrStdout()
			printSyncSummary(out, summary)
			fmt.Fprintf(out, "Run log: %s\n", logPath)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Process only the first run.debug_limit entries and skip persistence")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Like --debug, and never publish")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use the cached raw catalogs instead of fetching")
	cmd.Flags().BoolVar(&publish, "publish", false, "Copy outputs into the support repository when every kind succeeds")
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict the run to one kind (servant, ce)")
	return cmd
}

// newRunLogger writes to stderr at the configured level and keeps a debug
// level copy in a per-run file under the log directory.
func newRunLogger(cfg *config.Config, runID string) (*slog.Logger, string, error) {
	logPath := logging.RunLogPath(cfg.Paths.LogDir, runID)
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", logPath},
		FileLevel:   "debug",
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	if err := logging.PointCurrentLog(cfg.Paths.LogDir, logPath); err != nil {
		logging.WarnWithContext(logger, "current log pointer not updated", "log_pointer_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "app.log may reference an older run"),
		)
	}
	if removed := logging.PruneRunLogs(logger, cfg.Paths.LogDir, "fgasupport-*.log", cfg.Logging.RetentionDays, logPath); removed > 0 {
		logger.Info("pruned run logs", logging.Int("removed", removed))
	}
	return logger, logPath, nil
}

func printSyncSummary(out io.Writer, summary pipeline.Summary) {
	headers := []string{"Kind", "Entries", "New", "Changed", "Renamed", "Unchanged", "Rendered", "Failed", "Dropped", "Status"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		report := result.Report
		rows = append(rows, []string{
			result.Kind.DisplayName(),
			strconv.Itoa(len(report.Entries)),
			strconv.Itoa(report.New),
			strconv.Itoa(report.Changed),
			strconv.Itoa(report.Renamed),
			strconv.Itoa(report.Unchanged),
			strconv.Itoa(report.Rendered),
			strconv.Itoa(report.RenderFailed),
			strconv.Itoa(report.DroppedAssets),
			kindStatus(result),
		})
	}
	fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
	if summary.Published != nil {
		fmt.Fprintf(out, "Published: %d copied, %d unchanged, %d markers pruned\n",
			summary.Published.Copied, summary.Published.Unchanged, summary.Published.Pruned)
	}
}

func kindStatus(result pipeline.KindResult) string {
	switch {
	case result.Err != nil:
		return "failed: " + result.Err.Error()
	case result.Skipped:
		return "skipped (no source url)"
	case result.Persisted:
		return fmt.Sprintf("saved in %s", result.Duration.Truncate(time.Millisecond))
	default:
		return fmt.Sprintf("not persisted in %s", result.Duration.Truncate(time.Millisecond))
	}
}

