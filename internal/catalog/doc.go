// Package catalog defines the value types shared by every stage of a sync run:
// catalog kinds, entries, and the assets each entry owns.
//
// Entries are rebuilt from the remote catalog on every run and compared by
// Idx against the persisted snapshot. Nothing in this package performs I/O;
// the on-disk identity of an entry is derived from Sanitize and DirName.
package catalog
