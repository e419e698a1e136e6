package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Missing catalog URLs are not
// validation errors: the affected kind is skipped at run time.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.Attempts < 1 {
		return errors.New("download.attempts must be at least 1")
	}
	if c.Download.RetryBackoffMillis < 0 {
		return errors.New("download.retry_backoff_ms must be non-negative")
	}
	if c.Download.MinFileBytes < 0 {
		return errors.New("download.min_file_bytes must be non-negative")
	}
	if c.Download.EntryDelayMillis < 0 {
		return errors.New("download.entry_delay_ms must be non-negative")
	}
	if c.Download.TimeoutSeconds <= 0 {
		return errors.New("download.timeout_seconds must be positive")
	}
	if c.Download.Concurrency < 0 {
		return errors.New("download.concurrency must be non-negative (0 means unbounded)")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.CacheMaxAgeHours < 0 {
		return errors.New("catalog.cache_max_age_hours must be non-negative")
	}
	return nil
}

func (c *Config) validateRun() error {
	if c.Run.DebugLimit < 1 {
		return errors.New("run.debug_limit must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be non-negative")
	}
	return nil
}
