// Package inputs locates the synchronized video and audio files of a
// recording directory and derives where processed clips are written.
package inputs
