package trim

import (
	"errors"
	"math"
)

// Source is the read-only signal a selector works against.
type Source interface {
	SampleRate() int
	Len() int
	Duration() float64
	// PeakIndex returns the index of the largest absolute sample in [from, to).
	PeakIndex(from, to int) (int, bool)
}

// Selector resolves clip bounds from user interactions. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Selector struct {
	src       Source
	params    Params
	target    Target
	startMode StartMode
	endMode   EndMode
	sel       Selection
}

// NewSelector builds a selector over src. The active target starts at the
// start boundary with the modes named in params.
func NewSelector(src Source, params Params) (*Selector, error) {
	if src == nil {
		return nil, errors.New("trim: nil signal")
	}
	if src.SampleRate() <= 0 {
		return nil, errors.New("trim: sample rate must be positive")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Selector{
		src:       src,
		params:    params,
		target:    TargetStart,
		startMode: params.StartMode,
		endMode:   params.EndMode,
	}, nil
}

// Target returns the boundary pointing interactions currently update.
func (s *Selector) Target() Target { return s.target }

func (s *Selector) StartMode() StartMode { return s.startMode }

func (s *Selector) EndMode() EndMode { return s.endMode }

// Selection returns a copy of the anchors placed so far.
func (s *Selector) Selection() Selection { return s.sel }

func (s *Selector) Params() Params { return s.params }

// Duration returns the signal duration in seconds.
func (s *Selector) Duration() float64 { return s.src.Duration() }

// State reports the current target and modes without requesting a stop.
func (s *Selector) State() Transition { return s.transition(false) }

func (s *Selector) transition(stop bool) Transition {
	return Transition{Target: s.target, StartMode: s.startMode, EndMode: s.endMode, StopPreview: stop}
}

// ClipLength returns end minus start when both anchors are placed.
func (s *Selector) ClipLength() (float64, bool) {
	if !s.sel.HasStart || !s.sel.HasEnd {
		return 0, false
	}
	return s.sel.End - s.sel.Start, true
}

// SetActiveTarget switches which boundary subsequent pointing updates.
func (s *Selector) SetActiveTarget(target Target) Transition {
	s.target = target
	return s.transition(true)
}

// CycleBoundaryMode makes target active when it is not; when it already is,
// its mode advances to the next one and wraps.
func (s *Selector) CycleBoundaryMode(target Target) Transition {
	if s.target != target {
		s.target = target
		return s.transition(true)
	}
	switch target {
	case TargetStart:
		s.startMode = startModes[(indexOf(startModes, s.startMode)+1)%len(startModes)]
	case TargetEnd:
		s.endMode = endModes[(indexOf(endModes, s.endMode)+1)%len(endModes)]
	}
	return s.transition(true)
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

// ResolveManualPoint places the active boundary at t and returns the preview
// to play: the audio just after a start point or just before an end point.
func (s *Selector) ResolveManualPoint(t float64) (Window, error) {
	switch s.target {
	case TargetStart:
		if s.startMode != StartManual {
			return Window{}, ErrInvalidMode
		}
	case TargetEnd:
		if s.endMode != EndManual {
			return Window{}, ErrInvalidMode
		}
	}
	dur := s.src.Duration()
	if math.IsNaN(t) || t < 0 || t > dur {
		return Window{}, ErrOutOfBounds
	}

	preview := s.params.previewSeconds()
	if s.target == TargetStart {
		s.sel.Start, s.sel.HasStart = t, true
		return s.clampWindow(t, t+preview), nil
	}
	s.sel.End, s.sel.HasEnd = t, true
	return s.clampWindow(t-preview, t), nil
}

// ResolveImpulseAnchor finds the loudest sample inside the dragged range,
// adds the margin and stores the result as the start anchor. The returned
// preview is centred on the detected peak.
func (s *Selector) ResolveImpulseAnchor(from, to float64) (Window, error) {
	if s.startMode != StartImpulse {
		return Window{}, ErrInvalidMode
	}
	if math.IsNaN(from) || math.IsNaN(to) || to <= from {
		return Window{}, ErrDegenerateRange
	}
	dur := s.src.Duration()
	lo, hi := math.Max(from, 0), math.Min(to, dur)
	if hi <= lo {
		return Window{}, ErrOutOfBounds
	}

	rate := float64(s.src.SampleRate())
	i0 := int(math.Round(lo * rate))
	i1 := min(int(math.Round(hi*rate)), s.src.Len())
	if i1 <= i0 {
		return Window{}, ErrDegenerateRange
	}
	peak, ok := s.src.PeakIndex(i0, i1)
	if !ok {
		return Window{}, ErrDegenerateRange
	}

	anchor := math.Min(float64(peak)/rate+s.params.MarginSeconds, dur)
	s.sel.Start, s.sel.HasStart = anchor, true

	preview := s.params.previewSeconds()
	begin := math.Max(0, anchor-preview/2-s.params.MarginSeconds)
	return s.clampWindow(begin, begin+preview), nil
}

// FinalizeSelection validates the anchors and returns the clip bounds. In
// fixed end mode the end anchor is derived from the start anchor.
func (s *Selector) FinalizeSelection() (Bounds, error) {
	if !s.sel.HasStart {
		return Bounds{}, &MissingBoundaryError{Target: TargetStart}
	}
	start := s.sel.Start
	dur := s.src.Duration()

	if s.endMode == EndFixed {
		end := start + s.params.FixedDurationSeconds
		if end > dur {
			return Bounds{}, &InsufficientLengthError{
				Requested: s.params.FixedDurationSeconds,
				Remaining: math.Max(0, dur-start),
			}
		}
		s.sel.End, s.sel.HasEnd = end, true
		return Bounds{Start: start, End: end}, nil
	}

	if !s.sel.HasEnd {
		return Bounds{}, &MissingBoundaryError{Target: TargetEnd}
	}
	if s.sel.End <= start {
		return Bounds{}, ErrDegenerateRange
	}
	return Bounds{Start: start, End: s.sel.End}, nil
}

func (s *Selector) clampWindow(start, end float64) Window {
	dur := s.src.Duration()
	return Window{
		Start: math.Min(math.Max(start, 0), dur),
		End:   math.Min(math.Max(end, 0), dur),
	}
}
