package trim

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds reports a time outside the signal.
	ErrOutOfBounds = errors.New("time outside signal bounds")
	// ErrInvalidMode reports an operation invoked while its boundary is in the wrong mode.
	ErrInvalidMode = errors.New("operation not valid in current boundary mode")
	// ErrMissingBoundary reports a finalize attempt without both anchors.
	ErrMissingBoundary = errors.New("selection boundary not set")
	// ErrInsufficientSignalLength reports a fixed-duration end past the end of the signal.
	ErrInsufficientSignalLength = errors.New("insufficient signal length")
	// ErrDegenerateRange reports a zero or negative width range.
	ErrDegenerateRange = errors.New("degenerate range")
)

// InsufficientLengthError carries the remaining signal length after the start
// anchor so the user can decide to switch to a manual end.
type InsufficientLengthError struct {
	Requested float64
	Remaining float64
}

func (e *InsufficientLengthError) Error() string {
	return fmt.Sprintf("cannot extract %.2f sec from the selected start point: only %.2f sec remains", e.Requested, e.Remaining)
}

func (e *InsufficientLengthError) Is(target error) bool {
	return target == ErrInsufficientSignalLength
}

// MissingBoundaryError names the boundary that still needs an anchor.
type MissingBoundaryError struct {
	Target Target
}

func (e *MissingBoundaryError) Error() string {
	return fmt.Sprintf("%s point not set", e.Target)
}

func (e *MissingBoundaryError) Is(target error) bool {
	return target == ErrMissingBoundary
}
