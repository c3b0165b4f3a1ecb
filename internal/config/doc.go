// Package config loads, normalizes, and validates impulsetrim configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads TOML files. The Config type centralizes the selection
// constants (impulse margin, preview length, fixed clip duration), tool names
// and OCR crop geometry so every command sees the same values.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
