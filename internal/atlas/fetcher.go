package atlas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"fgasupport/internal/httputil"
	"fgasupport/internal/logging"
)

// ErrFetch reports that the catalog could not be obtained from the network
// or the local cache.
var ErrFetch = errors.New("catalog fetch failed")

const (
	defaultAttempts = 3
	defaultBackoff  = time.Second
)

// Fetcher downloads remote catalog documents.
type Fetcher struct {
	client   *http.Client
	fs       afero.Fs
	attempts int
	backoff  time.Duration
	maxAge   time.Duration
	offline  bool
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithFs overrides the filesystem used for the catalog cache.
func WithFs(fs afero.Fs) Option {
	return func(f *Fetcher) {
		if fs != nil {
			f.fs = fs
		}
	}
}

// WithRetry sets the attempt budget and the fixed delay between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(f *Fetcher) {
		if attempts > 0 {
			f.attempts = attempts
		}
		if backoff >= 0 {
			f.backoff = backoff
		}
	}
}

// WithCacheMaxAge allows a cached catalog younger than maxAge to be reused.
// Zero disables reuse.
func WithCacheMaxAge(maxAge time.Duration) Option {
	return func(f *Fetcher) {
		f.maxAge = maxAge
	}
}

// WithOffline forces the cached catalog to be used without network access.
func WithOffline(offline bool) Option {
	return func(f *Fetcher) {
		f.offline = offline
	}
}

// WithClock overrides the time source used for cache age checks.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher with a 30 second request timeout, three
// attempts, and a one second backoff.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   httputil.NewClient(0),
		fs:       afero.NewOsFs(),
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "atlas")
	return f
}

// Fetch downloads url and returns the document bytes. Transient failures are
// retried up to the attempt budget; the returned error wraps ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrFetch)
	}

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		data, err := f.get(ctx, url)
		if err == nil {
			f.logger.Debug("catalog downloaded",
				logging.String("url", url),
				logging.Int("bytes", len(data)),
				logging.Int("attempt", attempt),
			)
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil || !httputil.IsRetriable(err) {
			break
		}
		if attempt < f.attempts {
			logging.WarnWithContext(f.logger, "catalog download failed; retrying", "catalog_fetch_retry",
				logging.String("url", url),
				logging.Int("attempt", attempt),
				logging.Int("attempts", f.attempts),
				logging.Error(err),
				logging.String(logging.FieldImpact, "catalog retrieval delayed"),
			)
			if err := httputil.SleepWithContext(ctx, f.backoff); err != nil {
				lastErr = err
				break
			}
		}
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, lastErr)
}

// FetchCached returns the catalog for url, reusing cachePath when it is fresh
// enough (or when offline) and refreshing it after a successful download.
// A failed cache write is logged; the downloaded bytes are still returned.
func (f *Fetcher) FetchCached(ctx context.Context, url, cachePath string) ([]byte, error) {
	if data, ok := f.readCache(cachePath); ok {
		return data, nil
	}
	if f.offline {
		return nil, fmt.Errorf("%w: offline and no cached catalog at %s", ErrFetch, cachePath)
	}

	data, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.writeCache(cachePath, data); err != nil {
		logging.WarnWithContext(f.logger, "catalog cache write failed", "catalog_cache_write_failed",
			logging.String("path", cachePath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run downloads the catalog again"),
			logging.String(logging.FieldErrorHint, "check permissions on the data directory"),
		)
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	body, err := httputil.Get(ctx, f.client, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (f *Fetcher) readCache(path string) ([]byte, bool) {
	if strings.TrimSpace(path) == "" {
		return nil, false
	}
	if !f.offline && f.maxAge <= 0 {
		return nil, false
	}
	info, err := f.fs.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("catalog cache unreadable", logging.String("path", path), logging.Error(err))
		}
		return nil, false
	}
	age := f.now().Sub(info.ModTime())
	if !f.offline && age > f.maxAge {
		f.logger.Debug("catalog cache expired",
			logging.String("path", path),
			logging.Duration("age", age),
		)
		return nil, false
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	f.logger.Info("using cached catalog",
		logging.String("path", path),
		logging.Duration("age", age.Truncate(time.Second)),
		logging.Bool("offline", f.offline),
	)
	return data, true
}

func (f *Fetcher) writeCache(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := f.fs.Rename(tmp, path); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("commit cache: %w", err)
	}
	return nil
}
