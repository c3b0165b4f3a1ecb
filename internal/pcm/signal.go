package pcm

import (
	"errors"
	"fmt"
	"math"
)

// Signal is an immutable view of decoded mono audio.
type Signal struct {
	samples  []int16
	rate     int
	channels int
}

// New wraps samples recorded at rate Hz. channels records how many channels
// the source had before it was reduced to mono.
func New(samples []int16, rate, channels int) (*Signal, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("pcm: sample rate must be positive, got %d", rate)
	}
	if channels <= 0 {
		channels = 1
	}
	return &Signal{samples: samples, rate: rate, channels: channels}, nil
}

func (s *Signal) SampleRate() int { return s.rate }

// Channels reports the channel count of the source before mono reduction.
func (s *Signal) Channels() int { return s.channels }

func (s *Signal) Len() int { return len(s.samples) }

// Duration returns len(samples) / rate in seconds.
func (s *Signal) Duration() float64 {
	return float64(len(s.samples)) / float64(s.rate)
}

// At returns the sample at index i.
func (s *Signal) At(i int) int16 { return s.samples[i] }

// Index converts seconds to the nearest sample index, clamped to [0, Len].
func (s *Signal) Index(seconds float64) int {
	idx := int(math.Round(seconds * float64(s.rate)))
	return min(max(idx, 0), len(s.samples))
}

// Seconds converts a sample index to seconds.
func (s *Signal) Seconds(index int) float64 {
	return float64(index) / float64(s.rate)
}

// PeakIndex returns the index of the largest absolute amplitude in
// [from, to). Ties resolve to the earliest index. The bool is false when the
// clamped range is empty.
func (s *Signal) PeakIndex(from, to int) (int, bool) {
	from = max(from, 0)
	to = min(to, len(s.samples))
	if to <= from {
		return 0, false
	}
	best, bestAbs := from, abs16(s.samples[from])
	for i := from + 1; i < to; i++ {
		if a := abs16(s.samples[i]); a > bestAbs {
			best, bestAbs = i, a
		}
	}
	return best, true
}

func abs16(v int16) int32 {
	if v < 0 {
		return -int32(v)
	}
	return int32(v)
}

// Span is the sample range covered by one envelope column.
type Span struct {
	Min int16
	Max int16
}

// Envelope folds the signal into columns, each carrying the min and max
// sample it covers. It is used to draw waveforms at terminal resolution.
func (s *Signal) Envelope(columns int) ([]Span, error) {
	if columns <= 0 {
		return nil, errors.New("pcm: envelope needs at least one column")
	}
	out := make([]Span, columns)
	n := len(s.samples)
	if n == 0 {
		return out, nil
	}
	for c := 0; c < columns; c++ {
		lo := c * n / columns
		hi := (c + 1) * n / columns
		if hi <= lo {
			hi = min(lo+1, n)
		}
		if lo >= n {
			out[c] = out[c-1]
			continue
		}
		span := Span{Min: s.samples[lo], Max: s.samples[lo]}
		for _, v := range s.samples[lo+1 : hi] {
			span.Min = min(span.Min, v)
			span.Max = max(span.Max, v)
		}
		out[c] = span
	}
	return out, nil
}
