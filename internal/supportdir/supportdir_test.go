package supportdir_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fgasupport/internal/catalog"
	"fgasupport/internal/config"
	"fgasupport/internal/supportdir"
)

func write(t *testing.T, fs afero.Fs, path, body string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	if !mtime.IsZero() {
		require.NoError(t, fs.Chtimes(path, mtime, mtime))
	}
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func TestIndexReadsFoldersAndMarkers(t *testing.T) {
	fs := afero.NewMemMapFs()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	write(t, fs, "/out/servant/0002/support.png", "png", time.Time{})
	write(t, fs, "/out/servant/0002/Altria.txt", "", base)
	write(t, fs, "/out/servant/0002/Artoria.txt", "", base.Add(time.Hour))
	write(t, fs, "/out/servant/0001/Mash.txt", "", base)
	require.NoError(t, fs.MkdirAll("/out/servant/0010", 0o755))
	require.NoError(t, fs.MkdirAll("/out/servant/scratch", 0o755))
	write(t, fs, "/out/servant/README.md", "", time.Time{})

	folders, err := supportdir.Index(fs, "/out/servant", catalog.KindServant)
	require.NoError(t, err)
	require.Len(t, folders, 3)

	assert.Equal(t, 1, folders[0].Idx)
	assert.Equal(t, "Mash", folders[0].Name)
	assert.False(t, folders[0].HasImage)

	assert.Equal(t, 2, folders[1].Idx)
	assert.Equal(t, "Artoria", folders[1].Name)
	assert.Equal(t, 2, folders[1].Markers)
	assert.True(t, folders[1].HasImage)

	assert.Equal(t, 10, folders[2].Idx)
	assert.Equal(t, "0010", folders[2].Name)
	assert.Equal(t, catalog.KindServant, folders[2].Kind)
}

func TestIndexMissingRoot(t *testing.T) {
	folders, err := supportdir.Index(afero.NewMemMapFs(), "/nope", catalog.KindCraftEssence)
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestCleanMarkersKeepsNewest(t *testing.T) {
	fs := afero.NewMemMapFs()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	write(t, fs, "/out/servant/0002/Altria.txt", "", base)
	write(t, fs, "/out/servant/0002/Artoria.txt", "", base.Add(time.Hour))
	write(t, fs, "/out/servant/0002/support.png", "png", base)
	write(t, fs, "/out/servant/0003/Medusa.txt", "", base)

	result := supportdir.CleanMarkers(fs, "/out/servant", catalog.KindServant, nil)

	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"/out/servant/0002/Altria.txt"}, result.Removed)
	assert.True(t, exists(t, fs, "/out/servant/0002/Artoria.txt"))
	assert.True(t, exists(t, fs, "/out/servant/0002/support.png"))
	assert.True(t, exists(t, fs, "/out/servant/0003/Medusa.txt"))
}

func kindPaths() config.KindPaths {
	return config.KindPaths{
		Kind:           catalog.KindServant,
		OutputDir:      "/out/servant",
		OutputColorDir: "/out/servant-color",
		RepoDir:        "/repo/servant",
		RepoColorDir:   "/repo/servant-color",
	}
}

func TestPublishRequiresRepository(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/out/servant/0001/support.png", "png", time.Time{})

	_, err := supportdir.NewPublisher(fs, "/repo", nil).Publish(context.Background(), []config.KindPaths{kindPaths()})
	require.ErrorIs(t, err, supportdir.ErrRepoMissing)
	assert.False(t, exists(t, fs, "/repo/servant/0001/support.png"))
}

func TestPublishCopiesOnlyChangedFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))
	write(t, fs, "/out/servant/0001/support.png", "gray-1", time.Time{})
	write(t, fs, "/out/servant/0001/Mash.txt", "", time.Time{})
	write(t, fs, "/out/servant-color/0001/support.png", "color-1", time.Time{})
	write(t, fs, "/out/servant/0001/notes.json", "{}", time.Time{})
	write(t, fs, "/repo/servant/0001/support.png", "gray-1", time.Time{})
	write(t, fs, "/repo/servant/0001/Mash Kyrielight.txt", "", time.Time{})
	write(t, fs, "/repo/servant/0099/Keep.txt", "", time.Time{})

	publisher := supportdir.NewPublisher(fs, "/repo", nil)
	result, err := publisher.Publish(context.Background(), []config.KindPaths{kindPaths()})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 1, result.Pruned)

	data, err := afero.ReadFile(fs, "/repo/servant-color/0001/support.png")
	require.NoError(t, err)
	assert.Equal(t, "color-1", string(data))
	assert.True(t, exists(t, fs, "/repo/servant/0001/Mash.txt"))
	assert.False(t, exists(t, fs, "/repo/servant/0001/Mash Kyrielight.txt"))
	assert.False(t, exists(t, fs, "/repo/servant/0001/notes.json"))
	assert.True(t, exists(t, fs, "/repo/servant/0099/Keep.txt"), "folders absent from output are left alone")

	again, err := publisher.Publish(context.Background(), []config.KindPaths{kindPaths()})
	require.NoError(t, err)
	assert.Zero(t, again.Copied)
	assert.Equal(t, 3, again.Unchanged)
}
