// Package tui is the terminal front end for a trim session.
//
// It draws the signal envelope with the cursor, the placed anchors and the
// mode captions, and forwards key presses to the session. The selection
// rules live in the session and the selector; this package only presents.
package tui
