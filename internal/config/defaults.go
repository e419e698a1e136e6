package config

const (
	defaultRoot                = "~/.local/share/fgasupport"
	defaultTmpDirName          = "tmp"
	defaultOutputDirName       = "output"
	defaultDataDirName         = "data"
	defaultLogDirName          = "logs"
	defaultRepoDirName         = "fga-support"
	defaultEnvFile             = ".env"
	defaultDownloadAttempts    = 3
	defaultRetryBackoffMillis  = 1000
	defaultMinFileBytes        = 100
	defaultEntryDelayMillis    = 500
	defaultHTTPTimeoutSeconds  = 30
	defaultDownloadConcurrency = 8
	defaultCatalogCacheHours   = 0
	defaultDebugLimit          = 5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
)

// Default returns a Config populated with repository defaults. Directory
// fields left empty are derived from Paths.Root during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			Root: defaultRoot,
		},
		Sources: Sources{
			EnvFile: defaultEnvFile,
		},
		Download: Download{
			Attempts:           defaultDownloadAttempts,
			RetryBackoffMillis: defaultRetryBackoffMillis,
			MinFileBytes:       defaultMinFileBytes,
			EntryDelayMillis:   defaultEntryDelayMillis,
			TimeoutSeconds:     defaultHTTPTimeoutSeconds,
			Concurrency:        defaultDownloadConcurrency,
		},
		Catalog: Catalog{
			CacheMaxAgeHours: defaultCatalogCacheHours,
		},
		Run: Run{
			DebugLimit:   defaultDebugLimit,
			CleanMarkers: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
