package assets_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fgasupport/internal/assets"
	"fgasupport/internal/catalog"
	"fgasupport/internal/testsupport"
)

func newDownloader() *assets.Downloader {
	return assets.New(assets.WithRetry(3, 0))
}

func TestDownloadAndVerifyFetchesValidImage(t *testing.T) {
	server := testsupport.NewAssetServer(t)
	url := server.Set("/faces/1.png", testsupport.PNGBytes(t, 64, 64))
	dir := t.TempDir()

	asset := catalog.Asset{Key: "ascension_1", URL: url}
	got, ok := newDownloader().DownloadAndVerify(context.Background(), dir, asset)

	require.True(t, ok)
	assert.Equal(t, asset, got)
	assert.FileExists(t, filepath.Join(dir, "ascension_1-1.png"))
	assert.Equal(t, 1, server.Hits("/faces/1.png"))
}

func TestDownloadAndVerifySkipsNetworkForExistingFile(t *testing.T) {
	server := testsupport.NewAssetServer(t)
	url := server.Set("/faces/1.png", testsupport.PNGBytes(t, 64, 64))
	dir := t.TempDir()
	asset := catalog.Asset{Key: "ascension_1", URL: url}
	testsupport.WritePNG(t, assets.TargetPath(dir, asset), 64, 64)

	_, ok := newDownloader().DownloadAndVerify(context.Background(), dir, asset)

	require.True(t, ok)
	assert.Zero(t, server.TotalHits())
}

func TestDownloadAndVerifyRefetchesTinyExistingFile(t *testing.T) {
	server := testsupport.NewAssetServer(t)
	url := server.Set("/faces/1.png", testsupport.PNGBytes(t, 64, 64))
	dir := t.TempDir()
	asset := catalog.Asset{Key: "ascension_1", URL: url}
	testsupport.WriteFile(t, assets.TargetPath(dir, asset), 100)

	_, ok := newDownloader().DownloadAndVerify(context.Background(), dir, asset)

	require.True(t, ok)
	assert.Equal(t, 1, server.Hits("/faces/1.png"))
}

func TestDownloadAndVerifyGivesUpAfterThreeFailedVerifications(t *testing.T) {
	server := testsupport.NewAssetServer(t)
	url := server.Set("/faces/bad.png", []byte("<html>"+strings.Repeat("x", 512)+"</html>"))
	dir := t.TempDir()
	asset := catalog.Asset{Key: "ascension_2", URL: url}

	_, ok := newDownloader().DownloadAndVerify(context.Background(), dir, asset)

	assert.False(t, ok)
	assert.Equal(t, 3, server.Hits("/faces/bad.png"))
	assert.FileExists(t, assets.TargetPath(dir, asset), "invalid file from the last attempt stays on disk")
}

func TestDownloadAndVerifyRetriesTransportFailures(t *testing.T) {
	server := testsupport.NewAssetServer(t)
	url := server.Fail("/faces/down.png", http.StatusInternalServerError)
	dir := t.TempDir()
	asset := catalog.Asset{Key: "ascension_3", URL: url}

	_, ok := newDownloader().DownloadAndVerify(context.Background(), dir, asset)

	assert.False(t, ok)
	assert.Equal(t, 3, server.Hits("/faces/down.png"))
	_, err := os.Stat(assets.TargetPath(dir, asset))
	assert.True(t, os.IsNotExist(err), "partial download removed")
}

func TestDownloadAllKeepsVerifiedSubsetInOrder(t *testing.T) {
	server := testsupport.NewAssetServer(t)
	input := []catalog.Asset{
		{Key: "ascension_1", URL: server.Set("/a/1.png", testsupport.PNGBytes(t, 32, 32))},
		{Key: "ascension_2", URL: server.Fail("/a/2.png", http.StatusNotFound)},
		{Key: "ascension_3", URL: server.Set("/a/3.png", testsupport.PNGBytes(t, 32, 32))},
		{Key: "ascension_4", URL: server.Set("/a/4.png", []byte("not an image"))},
	}
	dir := filepath.Join(t.TempDir(), "0001")

	got := assets.New(assets.WithRetry(3, 0), assets.WithConcurrency(2)).
		DownloadAll(context.Background(), dir, input)

	assert.Equal(t, []catalog.Asset{input[0], input[2]}, got)
	assert.Equal(t, 3, server.Hits("/a/2.png"))
	assert.Equal(t, 3, server.Hits("/a/4.png"))
}

func TestDownloadAllEmpty(t *testing.T) {
	assert.Empty(t, newDownloader().DownloadAll(context.Background(), t.TempDir(), nil))
}
