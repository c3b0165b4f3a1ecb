// Package trim holds the rules that turn pointing interactions into the
// start/end bounds of an exported clip.
//
// A Selector tracks which boundary is being edited, how each boundary is
// resolved (impulse detection or manual pointing for the start; a fixed
// duration or manual pointing for the end) and the anchors placed so far.
// It never performs I/O: callers feed it clicks, drags and toggles, play
// whatever preview Window it returns, and export the Bounds produced by
// FinalizeSelection.
//
// Every failed operation leaves the selector unchanged, so presentation
// layers can surface the error and keep going.
package trim
