package testsupport

import (
	"testing"

	"impulsetrim/internal/pcm"
)

// Impulse describes a spike placed into a synthetic signal.
type Impulse struct {
	Seconds   float64
	Amplitude int16
}

// NewSignal builds a silent mono signal of the given duration with the
// requested impulses and a small alternating noise floor.
func NewSignal(t testing.TB, seconds float64, rate int, impulses ...Impulse) *pcm.Signal {
	t.Helper()
	n := int(seconds * float64(rate))
	samples := make([]int16, n)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 3
		} else {
			samples[i] = -3
		}
	}
	for _, imp := range impulses {
		idx := int(imp.Seconds*float64(rate) + 0.5)
		if idx < 0 || idx >= n {
			t.Fatalf("impulse at %v outside %v second signal", imp.Seconds, seconds)
		}
		samples[idx] = imp.Amplitude
	}
	signal, err := pcm.New(samples, rate, 1)
	if err != nil {
		t.Fatalf("pcm.New: %v", err)
	}
	return signal
}
