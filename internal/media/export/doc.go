// Package export writes finalized selections to disk with ffmpeg.
//
// The audio clip is written as dst.wav (mono PCM s16le at the source rate)
// and the optional video clip as video_for_ocr.mp4 without an audio track.
// Writers hold an exclusive lock on the destination directory and write to a
// temporary name that is renamed into place once ffmpeg succeeds, so a
// failed export never leaves a truncated clip behind.
package export
