package supportdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"fgasupport/internal/catalog"
)

// markerExt is the extension of display-name marker files.
const markerExt = ".txt"

// Folder is one published entry directory. Name is the display name
// recovered from the newest marker, or the directory name when the folder
// has no marker.
type Folder struct {
	Path     string
	Idx      int
	Kind     catalog.Kind
	Name     string
	HasImage bool
	Markers  int
}

// Index lists the entry folders directly under root, sorted by idx.
// Directories whose names are not all digits are ignored. A missing root
// yields no folders.
func Index(fsys afero.Fs, root string, kind catalog.Kind) ([]Folder, error) {
	infos, err := afero.ReadDir(fsys, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	folders := make([]Folder, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		idx, ok := parseIdx(info.Name())
		if !ok {
			continue
		}
		path := filepath.Join(root, info.Name())
		markers, err := listMarkers(fsys, path)
		if err != nil {
			return nil, err
		}
		folder := Folder{
			Path:    path,
			Idx:     idx,
			Kind:    kind,
			Name:    info.Name(),
			Markers: len(markers),
		}
		if len(markers) > 0 {
			folder.Name = strings.TrimSuffix(markers[0].Name(), markerExt)
		}
		if _, err := fsys.Stat(filepath.Join(path, kind.ImageFileName())); err == nil {
			folder.HasImage = true
		}
		folders = append(folders, folder)
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Idx < folders[j].Idx })
	return folders, nil
}

func parseIdx(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(name)
	if err != nil || idx <= 0 {
		return 0, false
	}
	return idx, true
}

// listMarkers returns the marker files in dir, newest first. Ties on
// modification time are broken by name.
func listMarkers(fsys afero.Fs, dir string) ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	markers := make([]os.FileInfo, 0, 1)
	for _, info := range infos {
		if info.IsDir() || !strings.EqualFold(filepath.Ext(info.Name()), markerExt) {
			continue
		}
		markers = append(markers, info)
	}
	sort.SliceStable(markers, func(i, j int) bool {
		ti, tj := markers[i].ModTime(), markers[j].ModTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return markers[i].Name() < markers[j].Name()
	})
	return markers, nil
}
