package tui

// Key bindings handled in handleKey.
const (
	KeyQuit       = "q"
	KeyCtrlC      = "ctrl+c"
	KeyLeft       = "left"
	KeyRight      = "right"
	KeyShiftLeft  = "shift+left"
	KeyShiftRight = "shift+right"
	KeyHome       = "home"
	KeyEnd        = "end"
	KeyStart      = "s"
	KeyEndTarget  = "e"
	KeyClick      = " "
	KeyRange      = "v"
	KeyCancel     = "esc"
	KeySave       = "enter"
)

// bigStep is how many columns shift+arrow moves the cursor.
const bigStep = 10
