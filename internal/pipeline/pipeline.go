package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"fgasupport/internal/assets"
	"fgasupport/internal/atlas"
	"fgasupport/internal/catalog"
	"fgasupport/internal/config"
	"fgasupport/internal/httputil"
	"fgasupport/internal/logging"
	"fgasupport/internal/reconcile"
	"fgasupport/internal/snapshot"
	"fgasupport/internal/supportdir"
	"fgasupport/internal/thumbnail"
)

// ErrKindFailed reports that at least one kind could not be reconciled.
var ErrKindFailed = errors.New("catalog kind failed")

// Options selects what a run does.
type Options struct {
	RunID   string
	Kinds   []catalog.Kind
	Debug   bool
	DryRun  bool
	Offline bool
	Publish bool
}

func (o Options) bounded() bool {
	return o.Debug || o.DryRun
}

// KindResult is the outcome for one catalog kind.
type KindResult struct {
	Kind           catalog.Kind
	Report         reconcile.Report
	Skipped        bool
	Persisted      bool
	MarkersRemoved int
	Duration       time.Duration
	Err            error
}

// Summary is the outcome of a run.
type Summary struct {
	RunID     string
	Results   []KindResult
	Published *supportdir.PublishResult
}

// Failed reports whether any kind ended with an error.
func (s Summary) Failed() bool {
	for _, result := range s.Results {
		if result.Err != nil {
			return true
		}
	}
	return false
}

// Runner executes sync runs against a configuration.
type Runner struct {
	cfg    *config.Config
	fs     afero.Fs
	logger *slog.Logger
}

// New creates a Runner.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run performs one sync pass. The error is non-nil when directories cannot
// be prepared, when any kind failed (wrapping ErrKindFailed), or when a
// requested publish failed. The summary is populated in every case.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = catalog.Kinds()
	}
	summary := Summary{RunID: opts.RunID}
	logger := r.logger.With(logging.String(logging.FieldRunID, opts.RunID))

	if err := r.cfg.EnsureDirectories(); err != nil {
		return summary, fmt.Errorf("prepare directories: %w", err)
	}

	logger.Info("sync started",
		logging.Bool("debug", opts.Debug),
		logging.Bool("dry_run", opts.DryRun),
		logging.Bool("offline", opts.Offline),
		logging.Int("kinds", len(opts.Kinds)),
	)
	started := time.Now()

	fetcher := atlas.NewFetcher(
		atlas.WithHTTPClient(httputil.NewClient(r.cfg.HTTPTimeout())),
		atlas.WithFs(r.fs),
		atlas.WithRetry(r.cfg.Download.Attempts, r.cfg.RetryBackoff()),
		atlas.WithCacheMaxAge(r.cfg.CatalogMaxAge()),
		atlas.WithOffline(opts.Offline),
		atlas.WithLogger(logger),
	)
	downloader := assets.New(
		assets.WithHTTPClient(httputil.NewClient(r.cfg.HTTPTimeout())),
		assets.WithFs(r.fs),
		assets.WithRetry(r.cfg.Download.Attempts, r.cfg.RetryBackoff()),
		assets.WithMinFileBytes(r.cfg.Download.MinFileBytes),
		assets.WithConcurrency(r.cfg.Download.Concurrency),
		assets.WithLogger(logger),
	)
	compositor := thumbnail.New(logger)

	summary.Results = make([]KindResult, len(opts.Kinds))
	var g errgroup.Group
	for i, kind := range opts.Kinds {
		g.Go(func() error {
			summary.Results[i] = r.runKind(ctx, kind, opts, fetcher, downloader, compositor, logger)
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for _, result := range summary.Results {
		if result.Err != nil {
			failed = append(failed, result.Err)
		}
	}

	if opts.Publish && !opts.DryRun && len(failed) == 0 {
		paths := make([]config.KindPaths, 0, len(opts.Kinds))
		for _, kind := range opts.Kinds {
			paths = append(paths, r.cfg.KindPaths(kind))
		}
		published, err := supportdir.NewPublisher(r.fs, r.cfg.Paths.RepoDir, logger).Publish(ctx, paths)
		if err != nil {
			return summary, fmt.Errorf("publish: %w", err)
		}
		summary.Published = &published
	} else if opts.Publish && len(failed) > 0 {
		logging.WarnWithContext(logger, "publish skipped after failed kinds", "publish_skipped",
			logging.Int("failed_kinds", len(failed)),
			logging.String(logging.FieldImpact, "support repository not updated this run"),
		)
	}

	logger.Info("sync finished",
		logging.Duration("duration", time.Since(started).Truncate(time.Millisecond)),
		logging.Int("failed_kinds", len(failed)),
	)
	if len(failed) > 0 {
		return summary, fmt.Errorf("%w: %w", ErrKindFailed, errors.Join(failed...))
	}
	return summary, nil
}

func (r *Runner) runKind(
	ctx context.Context,
	kind catalog.Kind,
	opts Options,
	fetcher *atlas.Fetcher,
	downloader reconcile.Downloader,
	compositor reconcile.Compositor,
	logger *slog.Logger,
) (result KindResult) {
	started := time.Now()
	result = KindResult{Kind: kind}
	logger = logger.With(logging.String(logging.FieldKind, kind.String()))
	defer func() { result.Duration = time.Since(started) }()

	url, err := r.cfg.SourceURL(kind)
	if err != nil {
		logging.ErrorWithContext(logger, "catalog source not configured; skipping kind", "kind_skipped",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set "+kind.SourceEnv()+" or the sources section of the config"),
		)
		result.Skipped = true
		return result
	}

	paths := r.cfg.KindPaths(kind)
	store := snapshot.New(r.fs, paths.LocalDataFile, logger)

	var (
		fresh []catalog.Entry
		local map[int]catalog.Entry
	)
	var leaves errgroup.Group
	leaves.Go(func() error {
		raw, err := fetcher.FetchCached(ctx, url, paths.RemoteDataFile)
		if err != nil {
			return err
		}
		fresh, err = atlas.Normalize(kind, raw, logger)
		return err
	})
	leaves.Go(func() error {
		local = store.Load()
		return nil
	})
	if err := leaves.Wait(); err != nil {
		logging.ErrorWithContext(logger, "catalog unavailable; kind aborted", "catalog_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and the source url, or rerun with --offline"),
		)
		result.Err = fmt.Errorf("%s: %w", kind, err)
		return result
	}

	if opts.bounded() {
		fresh = catalog.Take(fresh, r.cfg.Run.DebugLimit)
		logger.Info("bounded run; snapshot will not be saved",
			logging.Int("entries", len(fresh)),
			logging.Bool("debug", opts.Debug),
			logging.Bool("dry_run", opts.DryRun),
		)
	}

	engine := reconcile.New(paths, downloader, compositor,
		reconcile.WithFs(r.fs),
		reconcile.WithEntryDelay(r.cfg.EntryDelay()),
		reconcile.WithLogger(logger),
	)
	report, err := engine.Run(ctx, fresh, local)
	result.Report = report
	if err != nil {
		result.Err = fmt.Errorf("%s: reconcile: %w", kind, err)
		return result
	}

	if !opts.bounded() {
		if err := store.Save(report.Entries); err != nil {
			logging.ErrorWithContext(logger, "snapshot save failed", "snapshot_save_failed",
				logging.String("path", store.Path()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "next run re-examines entries against the previous snapshot"),
			)
		} else {
			result.Persisted = true
		}
		if r.cfg.Run.CleanMarkers {
			for _, root := range []string{paths.OutputDir, paths.OutputColorDir} {
				result.MarkersRemoved += len(supportdir.CleanMarkers(r.fs, root, kind, logger).Removed)
			}
		}
	}
	return result
}
