package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"fgasupport/internal/catalog"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrMissingSource reports that no catalog URL is configured for a kind.
var ErrMissingSource = errors.New("catalog source url not configured")

// Paths contains the working tree layout. Empty directories default to
// subdirectories of Root; relative values are resolved against Root.
type Paths struct {
	Root      string `toml:"root"`
	TmpDir    string `toml:"tmp_dir"`
	OutputDir string `toml:"output_dir"`
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	RepoDir   string `toml:"repo_dir"`
}

// Sources contains the remote catalog locations.
type Sources struct {
	ServantURL string `toml:"servant_url"`
	CEURL      string `toml:"ce_url"`
	EnvFile    string `toml:"env_file"`
}

// Download controls asset and catalog transfers.
type Download struct {
	Attempts           int   `toml:"attempts"`
	RetryBackoffMillis int   `toml:"retry_backoff_ms"`
	MinFileBytes       int64 `toml:"min_file_bytes"`
	EntryDelayMillis   int   `toml:"entry_delay_ms"`
	TimeoutSeconds     int   `toml:"timeout_seconds"`
	Concurrency        int   `toml:"concurrency"`
}

// Catalog controls reuse of the raw catalog cached under the data directory.
type Catalog struct {
	CacheMaxAgeHours int `toml:"cache_max_age_hours"`
}

// Run contains batch behaviour toggles.
type Run struct {
	DebugLimit   int  `toml:"debug_limit"`
	CleanMarkers bool `toml:"clean_markers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for fgasupport.
//
// Configuration sections:
//   - Paths: working tree (tmp, output, data, logs) and the publish repository
//   - Sources: catalog URLs per kind with SERVANT_URL/CE_URL fallbacks
//   - Download: retry, backoff, size guard, pacing, and concurrency
//   - Catalog: raw catalog cache reuse
//   - Run: debug bound and marker cleanup
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	Sources  Sources  `toml:"sources"`
	Download Download `toml:"download"`
	Catalog  Catalog  `toml:"catalog"`
	Run      Run      `toml:"run"`
	Logging  Logging  `toml:"logging"`
}

// KindPaths is the directory layout used for one catalog kind.
type KindPaths struct {
	Kind           catalog.Kind
	TempDir        string
	OutputDir      string
	OutputColorDir string
	RepoDir        string
	RepoColorDir   string
	RemoteDataFile string
	LocalDataFile  string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fgasupport/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fgasupport.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working tree for every catalog kind. The
// publish repository is never created here; publishing requires it to exist.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.TmpDir, c.Paths.OutputDir, c.Paths.DataDir, c.Paths.LogDir}
	for _, kind := range catalog.Kinds() {
		kp := c.KindPaths(kind)
		dirs = append(dirs, kp.TempDir, kp.OutputDir, kp.OutputColorDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// KindPaths returns the directory layout for kind.
func (c *Config) KindPaths(kind catalog.Kind) KindPaths {
	name := kind.String()
	return KindPaths{
		Kind:           kind,
		TempDir:        filepath.Join(c.Paths.TmpDir, name),
		OutputDir:      filepath.Join(c.Paths.OutputDir, name),
		OutputColorDir: filepath.Join(c.Paths.OutputDir, kind.ColorName()),
		RepoDir:        filepath.Join(c.Paths.RepoDir, name),
		RepoColorDir:   filepath.Join(c.Paths.RepoDir, kind.ColorName()),
		RemoteDataFile: filepath.Join(c.Paths.DataDir, name+".json"),
		LocalDataFile:  filepath.Join(c.Paths.DataDir, "local-"+name+".json"),
	}
}

// SourceURL returns the configured catalog URL for kind.
func (c *Config) SourceURL(kind catalog.Kind) (string, error) {
	var value string
	switch kind {
	case catalog.KindServant:
		value = c.Sources.ServantURL
	case catalog.KindCraftEssence:
		value = c.Sources.CEURL
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: set sources.%s_url or %s", ErrMissingSource, sourceKey(kind), kind.SourceEnv())
	}
	return value, nil
}

func sourceKey(kind catalog.Kind) string {
	if kind == catalog.KindCraftEssence {
		return "ce"
	}
	return kind.String()
}

// RetryBackoff is the fixed delay between download attempts.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Download.RetryBackoffMillis) * time.Millisecond
}

// EntryDelay is the pause applied after an entry performed network work.
func (c *Config) EntryDelay() time.Duration {
	return time.Duration(c.Download.EntryDelayMillis) * time.Millisecond
}

// HTTPTimeout bounds a single catalog or asset request.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Download.TimeoutSeconds) * time.Second
}

// CatalogMaxAge is how long a cached raw catalog may be reused; zero disables reuse.
func (c *Config) CatalogMaxAge() time.Duration {
	return time.Duration(c.Catalog.CacheMaxAgeHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
