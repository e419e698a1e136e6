package reconcile

import (
	"testing"

	"fgasupport/internal/catalog"
)

func assetsN(n int) []catalog.Asset {
	out := make([]catalog.Asset, n)
	for i := range out {
		out[i] = catalog.Asset{Key: "ascension_" + string(rune('1'+i)), URL: "https://cdn.example/" + string(rune('a'+i)) + ".png"}
	}
	return out
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		fresh         catalog.Entry
		local         catalog.Entry
		found         bool
		want          Outcome
		assetsChanged bool
		nameChanged   bool
	}{
		{
			name:          "no local record",
			fresh:         catalog.Entry{Idx: 1, Name: "Mash", Assets: assetsN(2)},
			want:          OutcomeNew,
			assetsChanged: true,
		},
		{
			name:          "asset count grew",
			fresh:         catalog.Entry{Idx: 1, Name: "Mash", Assets: assetsN(3)},
			local:         catalog.Entry{Idx: 1, Name: "Mash", Assets: assetsN(2)},
			found:         true,
			want:          OutcomeChanged,
			assetsChanged: true,
		},
		{
			name:          "asset count and name changed",
			fresh:         catalog.Entry{Idx: 1, Name: "Mash Kyrielight", Assets: assetsN(1)},
			local:         catalog.Entry{Idx: 1, Name: "Mash", Assets: assetsN(2)},
			found:         true,
			want:          OutcomeChanged,
			assetsChanged: true,
			nameChanged:   true,
		},
		{
			name:        "name only",
			fresh:       catalog.Entry{Idx: 1, Name: "Artoria", Assets: assetsN(2)},
			local:       catalog.Entry{Idx: 1, Name: "Altria", Assets: assetsN(2)},
			found:       true,
			want:        OutcomeRenamed,
			nameChanged: true,
		},
		{
			name:  "accent-only difference is not a rename",
			fresh: catalog.Entry{Idx: 1, Name: "Servant", Assets: assetsN(2)},
			local: catalog.Entry{Idx: 1, Name: "Sérvànt", Assets: assetsN(2)},
			found: true,
			want:  OutcomeUnchanged,
		},
		{
			name:  "same count different urls",
			fresh: catalog.Entry{Idx: 1, Name: "Mash", Assets: []catalog.Asset{{Key: "x", URL: "u1"}}},
			local: catalog.Entry{Idx: 1, Name: "Mash", Assets: []catalog.Asset{{Key: "y", URL: "u2"}}},
			found: true,
			want:  OutcomeUnchanged,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.fresh, tt.local, tt.found)
			if got.Outcome != tt.want {
				t.Errorf("outcome = %s, want %s", got.Outcome, tt.want)
			}
			if got.AssetsChanged != tt.assetsChanged {
				t.Errorf("AssetsChanged = %v, want %v", got.AssetsChanged, tt.assetsChanged)
			}
			if got.NameChanged != tt.nameChanged {
				t.Errorf("NameChanged = %v, want %v", got.NameChanged, tt.nameChanged)
			}
			if got.Reason == "" {
				t.Error("expected a reason")
			}
		})
	}
}
