// Package config loads, normalizes, and validates chunklapse configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: scene and world directories, renderer launch settings, and
// video assembly parameters.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical codec names, and clear validation errors.
package config
