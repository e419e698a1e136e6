package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// Sanitize strips accents and filesystem-invalid characters from name so it
// can be used as a cross-platform file or directory name fragment. Invalid
// characters and trailing dots become spaces, then the result is trimmed.
// Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(name string) string {
	cleaned := StripAccents(name)
	cleaned = invalidNameChars.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	for strings.HasSuffix(cleaned, ".") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "."))
	}
	return cleaned
}

// StripAccents applies compatibility decomposition and drops combining marks.
func StripAccents(value string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, value)
	if err != nil {
		return norm.NFKD.String(value)
	}
	return out
}
