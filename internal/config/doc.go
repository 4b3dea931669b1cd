// Package config loads, normalizes, and validates vidna configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VIDNA_SEED environment
// fallback. Codec defaults (posterization level, mutation mode, random seed)
// live here next to the output directories and the ffmpeg binaries used by
// the frame source and sink.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical level and mutation names, and clear validation
// errors.
package config
