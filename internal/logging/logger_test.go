package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fgasupport/internal/config"
	"fgasupport/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Debug("debug message")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "reconcile").With(
		logging.String(logging.FieldKind, "servant"),
		logging.Int(logging.FieldEntryIdx, 12),
	)
	logger.Info("assets downloaded", logging.Int("verified", 4), logging.String(logging.FieldRunID, "abc"))

	content := readFile(t, logPath)
	for _, want := range []string{"INFO [reconcile] Servant · #0012 – assets downloaded", "- verified: 4", "+ 1 more field hidden"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got %q", want, content)
		}
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no colour codes in file output, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller", logging.String("target", "/tmp/x"))

	content := readFile(t, logPath)
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "target: /tmp/x") {
		t.Fatalf("expected debug attrs rendered, got %q", content)
	}
}

func TestFileLevelOverridesConsoleLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "error",
		FileLevel:   "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("kept in file", logging.Error(errors.New("boom")))

	content := readFile(t, logPath)
	if !strings.Contains(content, `"msg":"kept in file"`) || !strings.Contains(content, `"level":"debug"`) {
		t.Fatalf("expected debug record in json file, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "snapshot unreadable", "snapshot_load_failed", logging.String(logging.FieldImpact, "starting empty"))

	out := buf.String()
	for _, want := range []string{`"event_type":"snapshot_load_failed"`, `"error_hint":"check the run log for details"`, `"impact":"starting empty"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestFormatSubject(t *testing.T) {
	cases := map[[2]string]string{
		{"servant", "7"}: "Servant · #0007",
		{"ce", ""}:       "CE",
		{"", "12"}:       "#0012",
		{"", ""}:         "",
	}
	for in, want := range cases {
		if got := logging.FormatSubject(in[0], in[1]); got != want {
			t.Errorf("FormatSubject(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}

func TestPruneRunLogsKeepsCurrentAndRecent(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "fgasupport-old.log")
	current := filepath.Join(dir, "fgasupport-current.log")
	recent := filepath.Join(dir, "fgasupport-recent.log")
	for _, path := range []string{old, current, recent} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -10)
	for _, path := range []string{old, current} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	removed := logging.PruneRunLogs(logging.NewNop(), dir, "fgasupport-*.log", 3, current)
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	for _, path := range []string{current, recent} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", path, err)
		}
	}
}

func TestPointCurrentLog(t *testing.T) {
	dir := t.TempDir()
	target := logging.RunLogPath(dir, "run-1")
	if err := os.WriteFile(target, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := logging.PointCurrentLog(dir, target); err != nil {
		t.Fatalf("PointCurrentLog: %v", err)
	}
	// Re-pointing replaces the previous pointer.
	if err := logging.PointCurrentLog(dir, target); err != nil {
		t.Fatalf("PointCurrentLog again: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, logging.CurrentLogName)); got != "hello" {
		t.Fatalf("pointer content = %q", got)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
