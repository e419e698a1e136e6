// Package atlas acquires the remote Atlas Academy export for each catalog
// kind and turns it into ordered catalog entries.
//
// Fetcher downloads the raw JSON document with bounded retries and keeps a
// copy under the data directory so later runs (or --offline runs) can reuse
// it. Normalize decodes that document tolerantly, applies the servant
// renaming rules and class-name normalization, and returns entries sorted by
// collection number.
package atlas
