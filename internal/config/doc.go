// Package config loads, normalizes, and validates airstage configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the AIRSTAGE_STATION environment
// fallback. The Config type centralizes every knob the CLI and queue engine
// need so data/staging/export directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
