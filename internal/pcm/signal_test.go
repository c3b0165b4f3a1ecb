package pcm

import "testing"

func TestNewRejectsBadRate(t *testing.T) {
	if _, err := New(nil, 0, 1); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	signal, err := New([]int16{1, 2}, 8000, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if signal.Channels() != 1 {
		t.Fatalf("expected channel count to default to 1, got %d", signal.Channels())
	}
}

func TestDurationAndIndex(t *testing.T) {
	signal, _ := New(make([]int16, 16000), 8000, 2)
	if signal.Duration() != 2 {
		t.Fatalf("expected 2s, got %v", signal.Duration())
	}
	cases := map[float64]int{
		-1:       0,
		0:        0,
		0.5:      4000,
		0.000062: 0,
		0.000063: 1,
		3:        16000,
	}
	for seconds, want := range cases {
		if got := signal.Index(seconds); got != want {
			t.Fatalf("Index(%v) = %d, want %d", seconds, got, want)
		}
	}
	if signal.Seconds(4000) != 0.5 {
		t.Fatalf("Seconds(4000) = %v", signal.Seconds(4000))
	}
}

func TestPeakIndex(t *testing.T) {
	signal, _ := New([]int16{0, 5, -9, 9, 2, -32768, 4}, 10, 1)

	tests := []struct {
		name     string
		from, to int
		want     int
		ok       bool
	}{
		{name: "negative wins", from: 0, to: 3, want: 2, ok: true},
		{name: "tie keeps first", from: 2, to: 5, want: 2, ok: true},
		{name: "min int16", from: 0, to: 7, want: 5, ok: true},
		{name: "clamped range", from: -4, to: 99, want: 5, ok: true},
		{name: "single sample", from: 6, to: 7, want: 6, ok: true},
		{name: "empty", from: 3, to: 3, ok: false},
		{name: "past end", from: 7, to: 9, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := signal.PeakIndex(tt.from, tt.to)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("PeakIndex(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestEnvelope(t *testing.T) {
	signal, _ := New([]int16{1, -4, 7, 2, -1, 0, 3, -8}, 8, 1)

	spans, err := signal.Envelope(4)
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}
	want := []Span{{-4, 1}, {2, 7}, {-1, 0}, {-8, 3}}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("column %d = %+v, want %+v", i, spans[i], want[i])
		}
	}

	wide, err := signal.Envelope(20)
	if err != nil {
		t.Fatalf("Envelope(20): %v", err)
	}
	if len(wide) != 20 {
		t.Fatalf("expected 20 columns, got %d", len(wide))
	}
	if wide[19] != (Span{-8, -8}) {
		t.Fatalf("last column = %+v", wide[19])
	}

	if _, err := signal.Envelope(0); err == nil {
		t.Fatal("expected error for zero columns")
	}
	empty, _ := New(nil, 8, 1)
	spans, err = empty.Envelope(3)
	if err != nil || len(spans) != 3 {
		t.Fatalf("empty envelope: %v %v", spans, err)
	}
}

func TestSamplesFromBytes(t *testing.T) {
	got := samplesFromBytes([]byte{0x01, 0x00, 0xfe, 0xff, 0x2c, 0x01, 0x07})
	want := []int16{1, -2, 300}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseChannel(t *testing.T) {
	if ch, err := ParseChannel(""); err != nil || ch != ChannelFirst {
		t.Fatalf("ParseChannel(\"\") = %q, %v", ch, err)
	}
	if ch, err := ParseChannel("MIX"); err != nil || ch != ChannelMix {
		t.Fatalf("ParseChannel(MIX) = %q, %v", ch, err)
	}
	if _, err := ParseChannel("left"); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}
