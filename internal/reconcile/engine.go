package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"fgasupport/internal/catalog"
	"fgasupport/internal/config"
	"fgasupport/internal/fileutil"
	"fgasupport/internal/httputil"
	"fgasupport/internal/logging"
)

// Downloader fetches the assets of one entry and returns the verified subset.
type Downloader interface {
	DownloadAll(ctx context.Context, dir string, assets []catalog.Asset) []catalog.Asset
}

// Compositor renders the gray and color thumbnails for one entry.
type Compositor interface {
	Render(kind catalog.Kind, sourceDir, grayPath, colorPath string) error
}

// Report is the result of one reconciliation pass.
type Report struct {
	Kind catalog.Kind
	// Entries replaces the snapshot: every fresh entry in input order, with
	// assets filtered to what verified or carried over from the local record.
	Entries []catalog.Entry

	New           int
	Changed       int
	Renamed       int
	Unchanged     int
	Rendered      int
	RenderFailed  int
	DroppedAssets int
}

// Engine reconciles one catalog kind.
type Engine struct {
	paths      config.KindPaths
	downloader Downloader
	compositor Compositor
	fs         afero.Fs
	delay      time.Duration
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFs overrides the filesystem used for marker files and temp cleanup.
func WithFs(fsys afero.Fs) Option {
	return func(e *Engine) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// WithEntryDelay sets the pause applied after an entry that downloaded assets.
func WithEntryDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine writing into the directories described by paths.
func New(paths config.KindPaths, downloader Downloader, compositor Compositor, opts ...Option) *Engine {
	e := &Engine{
		paths:      paths,
		downloader: downloader,
		compositor: compositor,
		fs:         afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "reconcile").
		With(logging.String(logging.FieldKind, paths.Kind.String()))
	return e
}

// Run reconciles fresh against local. local is only read. The returned
// error is non-nil only when ctx is cancelled; the partial report must not
// be persisted in that case.
func (e *Engine) Run(ctx context.Context, fresh []catalog.Entry, local map[int]catalog.Entry) (Report, error) {
	report := Report{
		Kind:    e.paths.Kind,
		Entries: make([]catalog.Entry, 0, len(fresh)),
	}

	for _, entry := range fresh {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		previous, found := local[entry.Idx]
		decision := Decide(entry, previous, found)
		logger := e.logger.With(logging.Int(logging.FieldEntryIdx, entry.Idx))

		var prev *catalog.Entry
		if found {
			prev = &previous
		}

		switch decision.Outcome {
		case OutcomeNew, OutcomeChanged:
			if decision.Outcome == OutcomeNew {
				report.New++
			} else {
				report.Changed++
			}
			logger.Info("refreshing entry assets", logging.Args(append(
				logging.DecisionAttrs("entry_sync", string(decision.Outcome), decision.Reason),
				logging.String("name", entry.Name),
				logging.Int("assets", len(entry.Assets)),
			)...)...)

			requested := len(entry.Assets)
			entry.Assets = e.refresh(ctx, logger, entry, &report)
			report.DroppedAssets += requested - len(entry.Assets)
			e.writeMarkers(logger, entry, prev)

			if err := httputil.SleepWithContext(ctx, e.delay); err != nil {
				report.Entries = append(report.Entries, entry)
				return report, err
			}

		case OutcomeRenamed:
			report.Renamed++
			logger.Info("entry renamed", logging.Args(append(
				logging.DecisionAttrs("entry_sync", string(decision.Outcome), decision.Reason),
				logging.String("from", previous.Name),
				logging.String("to", entry.Name),
			)...)...)
			entry.Assets = previous.Assets
			e.writeMarkers(logger, entry, prev)

		default:
			report.Unchanged++
			logger.Debug("entry unchanged", logging.String("name", entry.Name))
			entry.Assets = previous.Assets
		}

		report.Entries = append(report.Entries, entry)
	}

	e.logger.Info("reconciliation complete",
		logging.Int("entries", len(report.Entries)),
		logging.Int("new", report.New),
		logging.Int("changed", report.Changed),
		logging.Int("renamed", report.Renamed),
		logging.Int("unchanged", report.Unchanged),
		logging.Int("dropped_assets", report.DroppedAssets),
	)
	return report, nil
}

// refresh downloads entry's assets into its temp directory and renders the
// thumbnail when at least one verified. It returns the verified assets.
func (e *Engine) refresh(ctx context.Context, logger *slog.Logger, entry catalog.Entry, report *Report) []catalog.Asset {
	tempDir := filepath.Join(e.paths.TempDir, entry.DirName())
	if err := e.fs.MkdirAll(tempDir, 0o755); err != nil {
		logging.ErrorWithContext(logger, "create entry temp directory failed", "temp_dir_failed",
			logging.String("dir", tempDir),
			logging.Error(err),
		)
		report.RenderFailed++
		return nil
	}
	e.pruneStale(logger, tempDir, entry.Assets)

	verified := e.downloader.DownloadAll(ctx, tempDir, entry.Assets)
	if len(verified) == 0 {
		logging.ErrorWithContext(logger, "no verified assets; skipping thumbnail", "render_skipped",
			logging.String("name", entry.Name),
			logging.Int("requested", len(entry.Assets)),
			logging.String(logging.FieldErrorHint, "entry is retried on the next run"),
		)
		report.RenderFailed++
		return verified
	}

	fileName := e.paths.Kind.ImageFileName()
	grayPath := filepath.Join(e.paths.OutputDir, entry.DirName(), fileName)
	colorPath := filepath.Join(e.paths.OutputColorDir, entry.DirName(), fileName)
	if err := e.compositor.Render(e.paths.Kind, tempDir, grayPath, colorPath); err != nil {
		logging.ErrorWithContext(logger, "thumbnail render failed", "render_failed",
			logging.String("source", tempDir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the downloaded images in the temp directory"),
		)
		report.RenderFailed++
		return verified
	}
	report.Rendered++
	logger.Info("thumbnail rendered",
		logging.String("name", entry.Name),
		logging.Int("assets", len(verified)),
		logging.String("path", colorPath),
	)
	return verified
}

// pruneStale removes files in dir that do not belong to the current asset
// set, so images of keys dropped from the catalog never reach the sheet.
func (e *Engine) pruneStale(logger *slog.Logger, dir string, assets []catalog.Asset) {
	keep := make(map[string]bool, len(assets))
	for _, asset := range assets {
		keep[asset.LocalName()] = true
	}
	infos, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return
	}
	for _, info := range infos {
		if info.IsDir() || keep[info.Name()] {
			continue
		}
		path := filepath.Join(dir, info.Name())
		if err := e.fs.Remove(path); err != nil {
			logger.Debug("stale temp file not removed", logging.String("path", path), logging.Error(err))
			continue
		}
		logger.Debug("removed stale temp file", logging.String("path", path))
	}
}

// writeMarkers records the sanitized name next to both thumbnails. A marker
// left under the previous name is renamed rather than duplicated.
func (e *Engine) writeMarkers(logger *slog.Logger, entry catalog.Entry, previous *catalog.Entry) {
	if entry.SanitizedName() == "" {
		logging.WarnWithContext(logger, "entry has no usable name; marker skipped", "marker_skipped",
			logging.String("name", entry.Name),
			logging.String(logging.FieldImpact, "folder index falls back to the directory name"),
		)
		return
	}
	for _, root := range []string{e.paths.OutputDir, e.paths.OutputColorDir} {
		dir := filepath.Join(root, entry.DirName())
		if err := e.writeMarker(dir, entry, previous); err != nil {
			logging.WarnWithContext(logger, "marker update failed", "marker_failed",
				logging.String("dir", dir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "folder index may show a stale name"),
			)
		}
	}
}

func (e *Engine) writeMarker(dir string, entry catalog.Entry, previous *catalog.Entry) error {
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	target := filepath.Join(dir, entry.MarkerName())
	if previous != nil && previous.SanitizedName() != "" && previous.MarkerName() != entry.MarkerName() {
		old := filepath.Join(dir, previous.MarkerName())
		if err := e.fs.Rename(old, target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("rename marker: %w", err)
		}
	}
	return fileutil.Touch(e.fs, target)
}
