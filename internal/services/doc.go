// Package services defines shared utilities consumed by the trim session and
// its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, stage names, and clip
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failures from
//     ffmpeg, ffprobe, ffplay and tesseract classifiable.
//   - ExitCode, which turns those markers into CLI exit statuses.
//
// Use these helpers when wiring new tool calls so error handling and
// observability stay uniform across commands.
package services
