package atlas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fgasupport/internal/atlas"
	"fgasupport/internal/catalog"
)

const servantExport = `[
  {"collectionNo": 3, "name": "Altria Pendragon (Lancer)", "type": "normal", "className": "lancer", "rarity": 5, "gender": "female",
   "extraAssets": {"faces": {"ascension": {"10": "https://cdn.example/a/10.png", "2": "https://cdn.example/a/2.png", "1": "https://cdn.example/a/1.png"}}}},
  {"collectionNo": 1, "name": "Mash Kyrielight", "type": "heroine", "className": "shielder", "rarity": 3,
   "extraAssets": {"faces": {"ascension": {"1": "https://cdn.example/m/1.png"}, "costume": {"100": "https://cdn.example/m/c.png"}}}},
  {"collectionNo": 0, "name": "Unplayable", "type": "normal", "className": "saber"},
  {"collectionNo": 5, "name": "Enemy Only", "type": "enemyCollection", "className": "saber"},
  {"collectionNo": 7, "name": "Jeanne d'Arc", "type": "normal", "className": "ruler", "rarity": 5},
  {"collectionNo": 8, "name": "Jeanne d'Arc", "type": "normal", "className": "alterego", "rarity": 5},
  {"collectionNo": 9, "name": "BB", "type": "normal", "className": "mooncancer", "rarity": 4},
  {"collectionNo": 10, "name": "BB", "type": "normal", "className": "mooncancer", "rarity": 5},
  {"collectionNo": 11, "name": "Kishinami Hakuno", "type": "normal", "className": "moonCancer", "gender": "female"},
  {"collectionNo": 12, "name": "Ereshkigal", "type": "normal", "className": "beastEresh", "rarity": 5},
  {"collectionNo": 13, "name": "Sérvànt", "type": "normal", "className": "foreigner", "rarity": "bad"},
  "not an object"
]`

func TestNormalizeServants(t *testing.T) {
	entries, err := atlas.Normalize(catalog.KindServant, []byte(servantExport), nil)
	require.NoError(t, err)

	idxs := make([]int, 0, len(entries))
	byIdx := map[int]catalog.Entry{}
	for _, entry := range entries {
		idxs = append(idxs, entry.Idx)
		byIdx[entry.Idx] = entry
	}
	assert.Equal(t, []int{1, 3, 7, 8, 9, 10, 11, 12, 13}, idxs)

	mash := byIdx[1]
	assert.Equal(t, "Shielder", mash.ClassName)
	assert.Equal(t, []catalog.Asset{
		{Key: "ascension_1", URL: "https://cdn.example/m/1.png"},
		{Key: "costume_100", URL: "https://cdn.example/m/c.png"},
	}, mash.Assets)

	artoria := byIdx[3]
	assert.Equal(t, "Artoria Pendragon (Lancer)", artoria.Name)
	require.Len(t, artoria.Assets, 3)
	assert.Equal(t, []string{"ascension_1", "ascension_2", "ascension_10"},
		[]string{artoria.Assets[0].Key, artoria.Assets[1].Key, artoria.Assets[2].Key})

	assert.Equal(t, "Jeanne d'Arc", byIdx[7].Name)
	assert.Equal(t, "Jeanne d'Arc (Alter Ego)", byIdx[8].Name)
	assert.Equal(t, "Alter Ego", byIdx[8].ClassName)

	assert.Equal(t, "BB", byIdx[9].Name)
	assert.Equal(t, "Moon Cancer", byIdx[9].ClassName)
	assert.Equal(t, "BB (Summer)", byIdx[10].Name)

	assert.Equal(t, "Kishinami Hakunon", byIdx[11].Name)
	assert.Equal(t, "Moon Cancer", byIdx[11].ClassName)

	assert.Equal(t, "Ereshkigal (Summer)", byIdx[12].Name)
	assert.Equal(t, "Beast", byIdx[12].ClassName)

	assert.Equal(t, "Servant", byIdx[13].Name)
	assert.Equal(t, 1, byIdx[13].Rarity)
	assert.Empty(t, byIdx[13].Assets)
}

func TestNormalizeCraftEssences(t *testing.T) {
	raw := `[
	  {"collectionNo": 2, "name": "Kaléidoscope", "type": "normal", "rarity": 4,
	   "extraAssets": {"faces": {"equip": {"9400340": "https://cdn.example/ce/9400340.png"}}}},
	  {"collectionNo": 1, "name": "Azoth Blade", "type": "svtEquipFriendShip", "rarity": 1,
	   "extraAssets": {"faces": {"equip": {"9400020": "https://cdn.example/ce/9400020.png"}}}},
	  {"collectionNo": 0, "name": "Hidden"}
	]`
	entries, err := atlas.Normalize(catalog.KindCraftEssence, []byte(raw), nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Idx)
	assert.Equal(t, "Azoth Blade", entries[0].Name)
	assert.Empty(t, entries[0].ClassName)
	assert.Equal(t, []catalog.Asset{{Key: "equip_9400020", URL: "https://cdn.example/ce/9400020.png"}}, entries[0].Assets)
	assert.Equal(t, "Kaleidoscope", entries[1].Name)
}

func TestNormalizeRejectsNonArrayDocument(t *testing.T) {
	_, err := atlas.Normalize(catalog.KindServant, []byte(`{"oops": true}`), nil)
	require.Error(t, err)
}

func TestNormalizeClassName(t *testing.T) {
	tests := map[string]string{
		"saber":       "Saber",
		"mooncancer":  "Moon Cancer",
		"MoonCancer":  "Moon Cancer",
		"alterego":    "Alter Ego",
		"beast":       "Beast",
		"  pretender": "Pretender",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, atlas.NormalizeClassName(in), in)
	}
}
