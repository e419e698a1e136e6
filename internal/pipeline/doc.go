// Package pipeline runs one sync pass over the selected catalog kinds.
//
// Kinds run in parallel. For each kind the remote catalog fetch and the
// local snapshot load run concurrently; reconciliation starts once both are
// ready. A catalog fetch failure fails that kind only. Debug and dry-run
// passes bound the entry list and never persist the snapshot.
package pipeline
