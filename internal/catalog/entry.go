package catalog

import "fmt"

// Entry is one servant or craft essence record. ClassName is only populated
// for servants.
type Entry struct {
	Idx       int     `json:"idx"`
	Name      string  `json:"name"`
	Rarity    int     `json:"rarity"`
	Assets    []Asset `json:"assets"`
	ClassName string  `json:"class_name,omitempty"`
}

// SanitizedName is the filesystem-safe form of Name used for marker files.
func (e Entry) SanitizedName() string {
	return Sanitize(e.Name)
}

// DirName is the zero-padded folder name shared by temp and output trees.
func (e Entry) DirName() string {
	return DirName(e.Idx)
}

// MarkerName is the marker file recording the display name next to a thumbnail.
func (e Entry) MarkerName() string {
	return e.SanitizedName() + ".txt"
}

// DirName formats idx the way entry folders are named on disk.
func DirName(idx int) string {
	return fmt.Sprintf("%04d", idx)
}

// Index keys entries by Idx. Later duplicates overwrite earlier ones.
func Index(entries []Entry) map[int]Entry {
	out := make(map[int]Entry, len(entries))
	for _, entry := range entries {
		out[entry.Idx] = entry
	}
	return out
}

// Take returns at most n leading entries; n <= 0 returns entries unchanged.
func Take(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
