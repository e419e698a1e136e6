package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"fgasupport/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths accepts "stdout", "stderr", or file paths. Each destination
	// gets its own handler so terminals can be coloured while files stay plain.
	OutputPaths []string
	// FileLevel overrides Level for file destinations; empty uses Level.
	FileLevel   string
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	fileLevel := level
	if strings.TrimSpace(opts.FileLevel) != "" {
		fileLevel = parseLevel(opts.FileLevel)
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	destinations, err := openDestinations(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, err
	}

	handlers := make([]slog.Handler, 0, len(destinations))
	for _, dest := range destinations {
		levelVar := new(slog.LevelVar)
		if dest.file {
			levelVar.Set(fileLevel)
		} else {
			levelVar.Set(level)
		}
		addSource := opts.Development || levelVar.Level() <= slog.LevelDebug
		if format == "json" {
			handlers = append(handlers, newJSONHandler(dest.writer, levelVar, addSource))
			continue
		}
		handlers = append(handlers, newPrettyHandler(dest.writer, levelVar, addSource, dest.terminal))
	}

	return slog.New(newTeeHandler(handlers...)), nil
}

// NewFromConfig creates a stderr logger using application config defaults.
// Sync runs add a per-run file destination on top of this; see RunLogPath.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
}

// RunLogPath is the per-run log file for runID under logDir.
func RunLogPath(logDir, runID string) string {
	return filepath.Join(logDir, fmt.Sprintf("fgasupport-%s.log", runID))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

type destination struct {
	writer   io.Writer
	file     bool
	terminal bool
}

func openDestinations(paths []string) ([]destination, error) {
	seen := map[string]struct{}{}
	var out []destination
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			out = append(out, destination{writer: os.Stdout, terminal: isTerminal(os.Stdout)})
		case "stderr":
			out = append(out, destination{writer: os.Stderr, terminal: isTerminal(os.Stderr)})
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			out = append(out, destination{writer: file, file: true})
		}
	}
	if len(out) == 0 {
		out = append(out, destination{writer: os.Stderr, terminal: isTerminal(os.Stderr)})
	}
	return out, nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
