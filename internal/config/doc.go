// Package config loads, normalizes, and validates fgasupport configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SERVANT_URL and CE_URL, optionally sourced from a .env file. The Config type
// centralizes every knob the sync run and CLI need, including the per-kind
// directory layout returned by KindPaths.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
