// Package snapshot persists the local copy of a catalog between runs.
//
// The snapshot is a pretty-printed JSON array of entries. Loading is
// tolerant: a missing, empty, or malformed file yields an empty mapping so a
// run degrades to "nothing known locally" rather than failing.
package snapshot
