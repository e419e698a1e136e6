package catalog

import (
	"net/url"
	"strings"
)

// Asset references one downloadable face image of an entry.
type Asset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// FileName returns the percent-decoded final path segment of the asset URL.
// Query strings and fragments are ignored and a URL ending in "/" yields "".
func (a Asset) FileName() string {
	return FileNameFromURL(a.URL)
}

// LocalName is the file name used for the asset inside a download directory.
func (a Asset) LocalName() string {
	return a.Key + "-" + a.FileName()
}

// FileNameFromURL extracts the decoded last path segment of raw.
func FileNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if parsed, err := url.Parse(raw); err == nil {
		return lastSegment(parsed.Path)
	}

	// Unparseable input: strip query/fragment by hand and decode what is left.
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	segment := lastSegment(raw)
	if decoded, err := url.PathUnescape(segment); err == nil {
		return decoded
	}
	return segment
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
