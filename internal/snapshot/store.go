package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"fgasupport/internal/catalog"
	"fgasupport/internal/logging"
)

// Store reads and writes one snapshot file.
type Store struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
}

// New creates a Store for path. A nil fs uses the OS filesystem.
func New(fsys afero.Fs, path string, logger *slog.Logger) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{
		fs:     fsys,
		path:   path,
		logger: logging.NewComponentLogger(logger, "snapshot"),
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted entries keyed by idx. Read or parse failures
// are logged and produce an empty mapping.
func (s *Store) Load() map[int]catalog.Entry {
	entries, err := s.read()
	if err != nil {
		logging.WarnWithContext(s.logger, "snapshot unreadable; starting empty", "snapshot_load_failed",
			logging.String("path", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "every entry is treated as new this run"),
			logging.String(logging.FieldErrorHint, "delete or fix the snapshot file"),
		)
		return map[int]catalog.Entry{}
	}
	indexed := catalog.Index(entries)
	s.logger.Debug("snapshot loaded",
		logging.String("path", s.path),
		logging.Int("entry_count", len(indexed)),
	)
	return indexed
}

// Save overwrites the snapshot with entries, in the given order, as a
// 2-space indented JSON array. The write goes through a temp file so a
// failure leaves the previous snapshot intact.
func (s *Store) Save(entries []catalog.Entry) error {
	if strings.TrimSpace(s.path) == "" {
		return errors.New("snapshot path not configured")
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("snapshot saved",
		logging.String("path", s.path),
		logging.Int("entry_count", len(entries)),
	)
	return nil
}

func (s *Store) read() ([]catalog.Entry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var entries []catalog.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return entries, nil
}
