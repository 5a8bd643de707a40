// Package config loads, normalizes, and validates submerge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY. The Config type centralizes every knob the aligner and CLI
// need: the lookahead window, input style filters, the embedding backend and
// the run store location.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
