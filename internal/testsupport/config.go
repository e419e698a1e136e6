package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fgasupport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory. Retry
// backoff and entry delay are zeroed so tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths = config.Paths{
		Root:      base,
		TmpDir:    filepath.Join(base, "tmp"),
		OutputDir: filepath.Join(base, "output"),
		DataDir:   filepath.Join(base, "data"),
		LogDir:    filepath.Join(base, "logs"),
		RepoDir:   filepath.Join(base, "fga-support"),
	}
	cfgVal.Sources.EnvFile = ""
	cfgVal.Download.RetryBackoffMillis = 0
	cfgVal.Download.EntryDelayMillis = 0
	cfgVal.Download.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithSources sets the catalog URLs.
func WithSources(servantURL, ceURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sources.ServantURL = servantURL
		b.cfg.Sources.CEURL = ceURL
	}
}

// WithRepo creates the publish repository directory.
func WithRepo() ConfigOption {
	return func(b *configBuilder) {
		if err := os.MkdirAll(b.cfg.Paths.RepoDir, 0o755); err != nil {
			b.t.Fatalf("mkdir repo: %v", err)
		}
	}
}

// WithDebugLimit overrides the entry bound used by debug and dry-run.
func WithDebugLimit(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.DebugLimit = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.Root
}
