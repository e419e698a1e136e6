package supportdir

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"fgasupport/internal/catalog"
	"fgasupport/internal/logging"
)

// CleanResult contains the outcome of a marker sweep.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanMarkers keeps only the newest marker in every entry folder under root
// and removes the rest.
func CleanMarkers(fsys afero.Fs, root string, kind catalog.Kind, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	folders, err := Index(fsys, root, kind)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
		return result
	}

	for _, folder := range folders {
		if folder.Markers < 2 {
			continue
		}
		markers, err := listMarkers(fsys, folder.Path)
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: folder.Path, Error: err})
			continue
		}
		for _, stale := range markers[1:] {
			path := filepath.Join(folder.Path, stale.Name())
			if err := fsys.Remove(path); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
				logging.WarnWithContext(logger, "failed to remove stale marker", "marker_cleanup_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check output directory permissions"),
					logging.String(logging.FieldImpact, "folder keeps a duplicate name marker"),
				)
				continue
			}
			result.Removed = append(result.Removed, path)
			if logger != nil {
				logger.Info("removed stale marker",
					logging.String("path", path),
					logging.String("kept", markers[0].Name()),
					logging.String(logging.FieldEventType, "marker_cleanup"),
				)
			}
		}
	}
	return result
}
