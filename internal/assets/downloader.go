package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"fgasupport/internal/catalog"
	"fgasupport/internal/httputil"
	"fgasupport/internal/logging"
)

const (
	defaultAttempts     = 3
	defaultBackoff      = time.Second
	defaultMinFileBytes = 100
	defaultConcurrency  = 8
)

// errEmptyImage reports a file that decoded to a zero-sized image.
var errEmptyImage = errors.New("decoded image is empty")

// Downloader fetches and verifies asset images.
type Downloader struct {
	client      *http.Client
	fs          afero.Fs
	attempts    int
	backoff     time.Duration
	minBytes    int64
	concurrency int
	logger      *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithFs overrides the filesystem downloads are written to.
func WithFs(fs afero.Fs) Option {
	return func(d *Downloader) {
		if fs != nil {
			d.fs = fs
		}
	}
}

// WithRetry sets the attempt budget and the fixed delay between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(d *Downloader) {
		if attempts > 0 {
			d.attempts = attempts
		}
		if backoff >= 0 {
			d.backoff = backoff
		}
	}
}

// WithMinFileBytes sets the size above which an existing file is reused
// without a network call.
func WithMinFileBytes(n int64) Option {
	return func(d *Downloader) {
		if n >= 0 {
			d.minBytes = n
		}
	}
}

// WithConcurrency bounds parallel downloads within one DownloadAll call.
func WithConcurrency(n int) Option {
	return func(d *Downloader) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// New creates a Downloader.
func New(opts ...Option) *Downloader {
	d := &Downloader{
		client:      httputil.NewClient(0),
		fs:          afero.NewOsFs(),
		attempts:    defaultAttempts,
		backoff:     defaultBackoff,
		minBytes:    defaultMinFileBytes,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "downloader")
	return d
}

// TargetPath is where asset is stored inside dir.
func TargetPath(dir string, asset catalog.Asset) string {
	return filepath.Join(dir, asset.LocalName())
}

// DownloadAll downloads every asset into dir concurrently and returns the
// assets that verified, preserving input order.
func (d *Downloader) DownloadAll(ctx context.Context, dir string, assets []catalog.Asset) []catalog.Asset {
	if len(assets) == 0 {
		return nil
	}
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		logging.ErrorWithContext(d.logger, "create download directory failed", "download_dir_failed",
			logging.String("dir", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the tmp directory"),
		)
		return nil
	}

	verified := make([]bool, len(assets))
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, asset := range assets {
		g.Go(func() error {
			_, verified[i] = d.DownloadAndVerify(ctx, dir, asset)
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]catalog.Asset, 0, len(assets))
	for i, ok := range verified {
		if ok {
			kept = append(kept, assets[i])
		}
	}
	if dropped := len(assets) - len(kept); dropped > 0 {
		logging.WarnWithContext(d.logger, "some assets failed to download", "assets_dropped",
			logging.String("dir", dir),
			logging.Int("requested", len(assets)),
			logging.Int("dropped", dropped),
			logging.String(logging.FieldImpact, "dropped assets are retried on a later run"),
		)
	}
	return kept
}

// DownloadAndVerify stores asset under dir and confirms it decodes to a
// non-empty image. An existing file larger than the minimum size is reused
// without a network call. Transfer and verification failures are retried
// within the attempt budget; an invalid file from the final attempt is left
// on disk. The boolean reports success.
func (d *Downloader) DownloadAndVerify(ctx context.Context, dir string, asset catalog.Asset) (catalog.Asset, bool) {
	path := TargetPath(dir, asset)
	logger := d.logger.With(logging.String("asset", asset.Key))

	for attempt := 1; attempt <= d.attempts; attempt++ {
		if ctx.Err() != nil {
			return catalog.Asset{}, false
		}
		last := attempt == d.attempts

		if !d.reusable(path) {
			if err := d.fetch(ctx, asset.URL, path); err != nil {
				_ = d.fs.Remove(path)
				logging.WarnWithContext(logger, "asset download failed", "asset_download_failed",
					logging.String("url", asset.URL),
					logging.Int("attempt", attempt),
					logging.Int("attempts", d.attempts),
					logging.Error(err),
					logging.String(logging.FieldImpact, "asset retried or dropped"),
				)
				if !last && d.pause(ctx) != nil {
					return catalog.Asset{}, false
				}
				continue
			}
		} else {
			logger.Debug("reusing existing asset file", logging.String("path", path))
		}

		if err := d.verify(path); err != nil {
			logging.WarnWithContext(logger, "asset failed verification", "asset_verify_failed",
				logging.String("path", path),
				logging.Int("attempt", attempt),
				logging.Int("attempts", d.attempts),
				logging.Error(err),
				logging.String(logging.FieldImpact, "asset retried or dropped"),
				logging.String(logging.FieldErrorHint, "the host may have returned an error page"),
			)
			if last {
				break
			}
			_ = d.fs.Remove(path)
			if d.pause(ctx) != nil {
				return catalog.Asset{}, false
			}
			continue
		}
		return asset, true
	}

	logging.ErrorWithContext(logger, "asset dropped after retries", "asset_dropped",
		logging.String("url", asset.URL),
		logging.Int("attempts", d.attempts),
	)
	return catalog.Asset{}, false
}

func (d *Downloader) pause(ctx context.Context) error {
	return httputil.SleepWithContext(ctx, d.backoff)
}

func (d *Downloader) reusable(path string) bool {
	info, err := d.fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Size() > d.minBytes
}

func (d *Downloader) fetch(ctx context.Context, url, path string) error {
	body, err := httputil.Get(ctx, d.client, url)
	if err != nil {
		return err
	}
	defer body.Close()

	file, err := d.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (d *Downloader) verify(path string) error {
	file, err := d.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("missing after download: %w", err)
		}
		return err
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return errEmptyImage
	}
	return nil
}
