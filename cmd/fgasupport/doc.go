// Package main hosts the fgasupport CLI.
//
// The Cobra command tree wraps the sync pipeline (fetch, reconcile, render,
// persist), the publish step into the support repository, the folder index
// and marker sweep, ad-hoc thumbnail rendering, and configuration
// scaffolding. Configuration resolution and logger construction live here so
// the internal packages stay free of process concerns.
package main
