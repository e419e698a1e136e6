package supportdir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"fgasupport/internal/config"
	"fgasupport/internal/fileutil"
	"fgasupport/internal/logging"
)

// ErrRepoMissing reports that the support repository checkout does not exist.
var ErrRepoMissing = errors.New("support repository not found")

// publishPattern selects the files mirrored into the repository.
const publishPattern = "*/*.{png,txt}"

// PublishResult counts what a publish pass did.
type PublishResult struct {
	Copied    int
	Unchanged int
	Pruned    int
}

// Publisher mirrors output trees into the support repository.
type Publisher struct {
	fs      afero.Fs
	repoDir string
	logger  *slog.Logger
}

// NewPublisher creates a Publisher targeting repoDir.
func NewPublisher(fsys afero.Fs, repoDir string, logger *slog.Logger) *Publisher {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Publisher{
		fs:      fsys,
		repoDir: repoDir,
		logger:  logging.NewComponentLogger(logger, "publish"),
	}
}

// Publish copies the gray and color output trees of every kind into the
// repository. Only files whose content differs are copied; markers in the
// repository that no longer exist in the matching output folder are
// removed. The repository directory itself must already exist.
func (p *Publisher) Publish(ctx context.Context, kinds []config.KindPaths) (PublishResult, error) {
	var result PublishResult
	info, err := p.fs.Stat(p.repoDir)
	if err != nil || !info.IsDir() {
		logging.ErrorWithContext(p.logger, "support repository missing", "publish_repo_missing",
			logging.String("path", p.repoDir),
			logging.String(logging.FieldErrorHint, "clone the support repository or set paths.repo_dir"),
		)
		return result, fmt.Errorf("%w: %s", ErrRepoMissing, p.repoDir)
	}

	for _, kp := range kinds {
		pairs := [][2]string{
			{kp.OutputDir, kp.RepoDir},
			{kp.OutputColorDir, kp.RepoColorDir},
		}
		for _, pair := range pairs {
			if err := p.mirror(ctx, pair[0], pair[1], &result); err != nil {
				return result, err
			}
		}
	}

	p.logger.Info("publish complete",
		logging.String("repo", p.repoDir),
		logging.Int("copied", result.Copied),
		logging.Int("unchanged", result.Unchanged),
		logging.Int("pruned", result.Pruned),
	)
	return result, nil
}

func (p *Publisher) mirror(ctx context.Context, src, dst string, result *PublishResult) error {
	if _, err := p.fs.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	published := make(map[string]bool)

	err := afero.Walk(p.fs, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if ok, _ := doublestar.Match(publishPattern, strings.ToLower(filepath.ToSlash(rel))); !ok {
			return nil
		}
		published[rel] = true
		target := filepath.Join(dst, rel)
		same, err := fileutil.SameContent(p.fs, path, target)
		if err != nil {
			return err
		}
		if same {
			result.Unchanged++
			return nil
		}
		if err := fileutil.CopyFileVerified(p.fs, path, target); err != nil {
			return fmt.Errorf("publish %s: %w", rel, err)
		}
		result.Copied++
		p.logger.Debug("published file", logging.String("path", target))
		return nil
	})
	if err != nil {
		return fmt.Errorf("mirror %s: %w", src, err)
	}
	return p.pruneMarkers(src, dst, published, result)
}

// pruneMarkers removes repository markers in folders that the output tree
// also has, when the output no longer carries that marker.
func (p *Publisher) pruneMarkers(src, dst string, published map[string]bool, result *PublishResult) error {
	folders, err := afero.ReadDir(p.fs, src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}
		repoFolder := filepath.Join(dst, folder.Name())
		infos, err := afero.ReadDir(p.fs, repoFolder)
		if err != nil {
			continue
		}
		for _, info := range infos {
			if info.IsDir() || !strings.EqualFold(filepath.Ext(info.Name()), markerExt) {
				continue
			}
			rel := filepath.Join(folder.Name(), info.Name())
			if published[rel] {
				continue
			}
			if err := p.fs.Remove(filepath.Join(repoFolder, info.Name())); err != nil {
				return fmt.Errorf("prune marker %s: %w", rel, err)
			}
			result.Pruned++
			p.logger.Debug("pruned stale marker", logging.String("path", filepath.Join(repoFolder, info.Name())))
		}
	}
	return nil
}
