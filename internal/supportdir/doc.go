// Package supportdir maintains the published support folder trees.
//
// Every entry owns a zero-padded folder (0001, 0002, ...) holding its
// thumbnail and a "<name>.txt" marker that records the display name. Index
// reads those folders back, CleanMarkers removes marker duplicates left by
// renames, and Publisher mirrors the output trees into the support
// repository checkout.
package supportdir
