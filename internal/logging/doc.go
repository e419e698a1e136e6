// Package logging assembles structured slog loggers and formatting helpers used
// across fgasupport.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers that enforce the event_type, error_hint, and
// impact fields on warnings. The console handler renders a short subject (catalog
// kind plus entry index) so per-entry lines from concurrent kinds stay readable.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail, and retention helpers for per-run log files.
package logging
