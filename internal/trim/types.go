package trim

import (
	"fmt"
	"strings"
)

// Target identifies which boundary pointing interactions update.
type Target int

const (
	TargetStart Target = iota
	TargetEnd
)

func (t Target) String() string {
	if t == TargetEnd {
		return "end"
	}
	return "start"
}

// ParseTarget accepts "start" or "end".
func ParseTarget(value string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start", "s":
		return TargetStart, nil
	case "end", "e":
		return TargetEnd, nil
	default:
		return TargetStart, fmt.Errorf("unknown target %q (want start or end)", value)
	}
}

// StartMode is the strategy used to resolve the start anchor.
type StartMode int

const (
	StartImpulse StartMode = iota
	StartManual
)

var startModes = []StartMode{StartImpulse, StartManual}

func (m StartMode) String() string {
	if m == StartManual {
		return "manual"
	}
	return "impulse"
}

// ParseStartMode accepts "impulse" or "manual".
func ParseStartMode(value string) (StartMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "impulse":
		return StartImpulse, nil
	case "manual":
		return StartManual, nil
	default:
		return StartImpulse, fmt.Errorf("unknown start mode %q (want impulse or manual)", value)
	}
}

// EndMode is the strategy used to resolve the end anchor.
type EndMode int

const (
	EndFixed EndMode = iota
	EndManual
)

var endModes = []EndMode{EndFixed, EndManual}

func (m EndMode) String() string {
	if m == EndManual {
		return "manual"
	}
	return "fixed"
}

// ParseEndMode accepts "fixed" or "manual".
func ParseEndMode(value string) (EndMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "fixed":
		return EndFixed, nil
	case "manual":
		return EndManual, nil
	default:
		return EndFixed, fmt.Errorf("unknown end mode %q (want fixed or manual)", value)
	}
}

// Params are the tunable constants of a selector.
type Params struct {
	// MarginSeconds is added to the detected impulse time.
	MarginSeconds float64
	// PreviewMillis is the length of preview snippets.
	PreviewMillis int
	// FixedDurationSeconds is the clip length used by the fixed end mode.
	FixedDurationSeconds float64
	StartMode            StartMode
	EndMode              EndMode
}

// DefaultParams returns the stock margin, preview length and clip duration.
func DefaultParams() Params {
	return Params{
		MarginSeconds:        0.5,
		PreviewMillis:        500,
		FixedDurationSeconds: 20,
		StartMode:            StartImpulse,
		EndMode:              EndFixed,
	}
}

func (p Params) previewSeconds() float64 {
	return float64(p.PreviewMillis) / 1000
}

// Validate rejects parameters the selector cannot work with.
func (p Params) Validate() error {
	if p.MarginSeconds < 0 {
		return fmt.Errorf("margin must be >= 0, got %v", p.MarginSeconds)
	}
	if p.PreviewMillis <= 0 {
		return fmt.Errorf("preview length must be positive, got %d ms", p.PreviewMillis)
	}
	if p.FixedDurationSeconds <= 0 {
		return fmt.Errorf("fixed duration must be positive, got %v", p.FixedDurationSeconds)
	}
	return nil
}

// Window is a span of the signal in seconds, used for previews.
type Window struct {
	Start float64
	End   float64
}

// Length returns the window span in seconds.
func (w Window) Length() float64 {
	return w.End - w.Start
}

// Empty reports whether the window covers no audio.
func (w Window) Empty() bool {
	return w.End <= w.Start
}

// Bounds is a finalized selection ready for export.
type Bounds struct {
	Start float64
	End   float64
}

// Duration returns the clip length in seconds.
func (b Bounds) Duration() float64 {
	return b.End - b.Start
}

// Selection holds the anchors placed so far.
type Selection struct {
	Start    float64
	End      float64
	HasStart bool
	HasEnd   bool
}

// Transition reports the selector state after a target or mode change.
type Transition struct {
	Target    Target
	StartMode StartMode
	EndMode   EndMode
	// StopPreview asks the playback collaborator to stop any running preview.
	StopPreview bool
}
