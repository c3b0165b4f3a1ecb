// Package ffprobe runs ffprobe against a recording and decodes its JSON
// report. Inspect returns a Result; FirstAudio picks the first audio stream
// so decoders can read its sample rate and channel count.
package ffprobe
