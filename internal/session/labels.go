package session

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"impulsetrim/internal/trim"
)

var titler = cases.Title(language.English)

// StartLabel renders the start button caption, e.g. "Start (Impulse)".
func StartLabel(mode trim.StartMode) string {
	return fmt.Sprintf("Start (%s)", titler.String(mode.String()))
}

// EndLabel renders the end button caption. The fixed mode names its length,
// e.g. "End (20s)".
func EndLabel(mode trim.EndMode, fixedSeconds float64) string {
	if mode == trim.EndFixed {
		return fmt.Sprintf("End (%ss)", strconv.FormatFloat(fixedSeconds, 'f', -1, 64))
	}
	return fmt.Sprintf("End (%s)", titler.String(mode.String()))
}

// FormatSelection renders the anchors placed so far.
func FormatSelection(sel trim.Selection) string {
	return fmt.Sprintf("Start point: %s, End point: %s", formatAnchor(sel.Start, sel.HasStart), formatAnchor(sel.End, sel.HasEnd))
}

func formatAnchor(v float64, ok bool) string {
	if !ok {
		return "unset"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
