// Package session drives one trim interaction from first toggle to saved
// clip. It forwards pointing input to the selector, turns selector results
// into preview playback, and on save exports the clip and records it in the
// ledger. Presentation layers (TUI, shell, headless CLI) only render the
// Feedback it returns.
package session
