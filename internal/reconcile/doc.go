// Package reconcile compares a freshly fetched catalog with the local
// snapshot and performs the per-entry work that follows from the difference.
//
// Decide classifies each entry. An entry with no local record, or whose
// asset count differs from the local record, has every current asset
// downloaded again and its thumbnail re-rendered; key-level diffs are not
// attempted because asset keys are not stable across catalog revisions. An
// entry whose counts match keeps the locally recorded assets. A change of
// sanitized name only moves the marker files.
//
// Engine.Run processes entries sequentially in catalog order and returns the
// entry list that should replace the snapshot.
package reconcile
