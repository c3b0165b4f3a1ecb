// Package pcm holds decoded audio as signed 16-bit mono samples and decodes
// media files into that form through ffmpeg.
//
// A Signal is immutable once built; the trim selector, the waveform views and
// the exporters all read from the same instance for the whole session.
package pcm
