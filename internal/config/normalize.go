package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSources(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Root) == "" {
		c.Paths.Root = defaultRoot
	}
	if c.Paths.Root, err = expandPath(strings.TrimSpace(c.Paths.Root)); err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	if c.Paths.TmpDir, err = c.underRoot(c.Paths.TmpDir, defaultTmpDirName); err != nil {
		return fmt.Errorf("paths.tmp_dir: %w", err)
	}
	if c.Paths.OutputDir, err = c.underRoot(c.Paths.OutputDir, defaultOutputDirName); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.DataDir, err = c.underRoot(c.Paths.DataDir, defaultDataDirName); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = c.underRoot(c.Paths.LogDir, defaultLogDirName); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.RepoDir, err = c.underRoot(c.Paths.RepoDir, defaultRepoDirName); err != nil {
		return fmt.Errorf("paths.repo_dir: %w", err)
	}
	return nil
}

// underRoot resolves value against Paths.Root. Tilde and absolute paths are
// taken as-is; an empty value falls back to Root/fallback.
func (c *Config) underRoot(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		value = filepath.Join(c.Paths.Root, fallback)
	case strings.HasPrefix(value, "~") || filepath.IsAbs(value):
	default:
		value = filepath.Join(c.Paths.Root, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeSources() error {
	if err := c.loadEnvFile(); err != nil {
		return err
	}
	c.Sources.ServantURL = strings.TrimSpace(c.Sources.ServantURL)
	if c.Sources.ServantURL == "" {
		if value, ok := os.LookupEnv("SERVANT_URL"); ok {
			c.Sources.ServantURL = strings.TrimSpace(value)
		}
	}
	c.Sources.CEURL = strings.TrimSpace(c.Sources.CEURL)
	if c.Sources.CEURL == "" {
		if value, ok := os.LookupEnv("CE_URL"); ok {
			c.Sources.CEURL = strings.TrimSpace(value)
		}
	}
	return nil
}

// loadEnvFile exports variables from the configured .env file. Variables
// already present in the environment win. A missing file is not an error.
func (c *Config) loadEnvFile() error {
	envFile := strings.TrimSpace(c.Sources.EnvFile)
	if envFile == "" {
		return nil
	}
	resolved, err := c.underRoot(envFile, defaultEnvFile)
	if err != nil {
		return fmt.Errorf("sources.env_file: %w", err)
	}
	c.Sources.EnvFile = resolved
	if _, err := os.Stat(resolved); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(resolved); err != nil {
		return fmt.Errorf("load env file %s: %w", resolved, err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
