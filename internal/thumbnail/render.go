package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/disintegration/imaging"

	"fgasupport/internal/catalog"
	"fgasupport/internal/logging"
)

// ErrNoImages reports a source directory without any decodable image.
var ErrNoImages = errors.New("no usable images in source directory")

const imagePattern = "*.{jpg,jpeg,png}"

// Compositor renders thumbnails from directories of face images.
type Compositor struct {
	logger *slog.Logger
}

// New creates a Compositor.
func New(logger *slog.Logger) *Compositor {
	return &Compositor{logger: logging.NewComponentLogger(logger, "thumbnail")}
}

// Render composes the thumbnail for kind from sourceDir and writes the
// grayscale and color variants. It returns ErrNoImages, without writing
// anything, when sourceDir holds no usable image.
func (c *Compositor) Render(kind catalog.Kind, sourceDir, grayPath, colorPath string) error {
	images, err := c.LoadImages(sourceDir)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("%w: %s", ErrNoImages, sourceDir)
	}

	var composite *image.NRGBA
	switch kind {
	case catalog.KindCraftEssence:
		composite = CraftEssenceImage(images[0])
	default:
		composite = ServantSheet(images)
	}

	if err := save(composite, colorPath); err != nil {
		return err
	}
	if err := save(Grayscale(composite), grayPath); err != nil {
		return err
	}
	c.logger.Debug("thumbnail rendered",
		logging.String(logging.FieldKind, kind.String()),
		logging.String("source", sourceDir),
		logging.Int("images", len(images)),
		logging.Int("width", composite.Bounds().Dx()),
		logging.Int("height", composite.Bounds().Dy()),
	)
	return nil
}

// RenderSplit writes one grayscale strip per image as <name>_<i:03d>.png in
// outDir and returns the written paths.
func (c *Compositor) RenderSplit(sourceDir, outDir, name string) ([]string, error) {
	images, err := c.LoadImages(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImages, sourceDir)
	}
	written := make([]string, 0, len(images))
	for i, strip := range SplitStrips(images) {
		target := filepath.Join(outDir, fmt.Sprintf("%s_%03d.png", name, i))
		if err := save(strip, target); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// LoadImages decodes every .jpg/.jpeg/.png file below dir, sorted by
// relative path. Other files and undecodable or empty images are logged and
// skipped. A missing directory yields no images.
func (c *Compositor) LoadImages(dir string) ([]image.Image, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat source dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list source dir: %w", err)
	}
	sort.Strings(matches)

	images := make([]image.Image, 0, len(matches))
	for _, rel := range matches {
		if ok, _ := doublestar.Match(imagePattern, strings.ToLower(path.Base(rel))); !ok {
			c.logger.Debug("skipping non-image file", logging.String("file", rel))
			continue
		}
		full := filepath.Join(dir, filepath.FromSlash(rel))
		img, err := imaging.Open(full)
		if err != nil {
			c.logger.Warn("skipping unreadable image",
				logging.String("file", full),
				logging.Error(err),
			)
			continue
		}
		if img.Bounds().Empty() {
			c.logger.Warn("skipping empty image", logging.String("file", full))
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

func save(img image.Image, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := imaging.Save(img, target); err != nil {
		return fmt.Errorf("save %s: %w", target, err)
	}
	return nil
}
