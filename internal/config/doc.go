// Package config loads, normalizes, and validates garage configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and resolves relative store paths against the
// configured data directory. The Config type centralizes every knob the daemon
// and CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
