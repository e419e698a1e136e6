// Package assets downloads entry face images into per-entry temp
// directories.
//
// DownloadAndVerify fetches a single asset with a bounded retry loop and
// confirms the bytes decode to a non-empty image. DownloadAll fans the work
// for one entry out across a bounded errgroup and returns the verified
// subset in input order; a failing asset never cancels its siblings.
package assets
