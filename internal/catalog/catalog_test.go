package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://example.com/path/to/image.jpg?param=value", want: "image.jpg"},
		{url: "https://example.com/", want: ""},
		{url: "https://example.com", want: ""},
		{url: "https://example.com/a/b%20c.png", want: "b c.png"},
		{url: "https://example.com/a/face.png#frag", want: "face.png"},
		{url: "", want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FileNameFromURL(tc.url), "url %q", tc.url)
	}
}

func TestAssetLocalName(t *testing.T) {
	asset := Asset{Key: "ascension_1", URL: "https://static.example/Faces/f_1001.png"}
	assert.Equal(t, "f_1001.png", asset.FileName())
	assert.Equal(t, "ascension_1-f_1001.png", asset.LocalName())
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("servant")
	require.NoError(t, err)
	assert.Equal(t, KindServant, kind)

	kind, err = ParseKind(" CE ")
	require.NoError(t, err)
	assert.Equal(t, KindCraftEssence, kind)

	_, err = ParseKind("invalid")
	assert.Error(t, err)
}

func TestKindProperties(t *testing.T) {
	assert.Equal(t, "servant", KindServant.String())
	assert.Equal(t, "ce", KindCraftEssence.String())
	assert.Equal(t, "support.png", KindServant.ImageFileName())
	assert.Equal(t, "ce.png", KindCraftEssence.ImageFileName())
	assert.Equal(t, "SERVANT_URL", KindServant.SourceEnv())
	assert.Equal(t, "CE_URL", KindCraftEssence.SourceEnv())
	assert.Equal(t, "ce-color", KindCraftEssence.ColorName())
}

func TestEntryDerivedNames(t *testing.T) {
	entry := Entry{Idx: 7, Name: "Jeanne d'Arc: Alter?"}
	assert.Equal(t, "0007", entry.DirName())
	assert.Equal(t, "Jeanne d'Arc  Alter", entry.SanitizedName())
	assert.Equal(t, "Jeanne d'Arc  Alter.txt", entry.MarkerName())
}

func TestTakeAndIndex(t *testing.T) {
	entries := []Entry{{Idx: 1}, {Idx: 2}, {Idx: 3}}
	assert.Len(t, Take(entries, 2), 2)
	assert.Len(t, Take(entries, 0), 3)
	assert.Len(t, Take(entries, 10), 3)

	index := Index(entries)
	require.Len(t, index, 3)
	assert.Equal(t, 2, index[2].Idx)
}
