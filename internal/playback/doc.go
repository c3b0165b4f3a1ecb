// Package playback plays short preview windows of the source audio.
//
// Players are fire-and-forget: Play returns once playback has started and a
// later Play or Stop supersedes whatever is still running. Only one preview
// is audible at a time.
package playback
