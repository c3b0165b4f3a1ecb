package playback_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"impulsetrim/internal/playback"
	"impulsetrim/internal/testsupport"
	"impulsetrim/internal/trim"
)

func TestArgs(t *testing.T) {
	got := strings.Join(playback.Args("take.wav", trim.Window{Start: 2.75, End: 3.25}), " ")
	want := "-nodisp -autoexit -loglevel error -ss 2.750 -t 0.500 take.wav"
	if got != want {
		t.Fatalf("Args = %q, want %q", got, want)
	}
}

func TestFFplaySupersedesPreview(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "starts")
	bin := testsupport.StubBinary(t, dir, "ffplay", "echo start >> '"+marker+"'\nexec sleep 30\n")
	player := playback.NewFFplay(bin, nil)
	ctx := context.Background()

	if err := player.Play(ctx, "a.wav", trim.Window{Start: 0, End: 0.5}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !player.Playing() {
		t.Fatal("expected preview to be running")
	}
	waitForStarts(t, marker, 1)

	if err := player.Play(ctx, "a.wav", trim.Window{Start: 1, End: 1.5}); err != nil {
		t.Fatalf("second Play: %v", err)
	}
	waitForStarts(t, marker, 2)

	player.Stop()
	if player.Playing() {
		t.Fatal("expected no preview after Stop")
	}
	player.Stop()
}

func TestFFplaySkipsEmptyWindow(t *testing.T) {
	player := playback.NewFFplay("definitely-not-ffplay", nil)
	if err := player.Play(context.Background(), "a.wav", trim.Window{Start: 3, End: 3}); err != nil {
		t.Fatalf("empty window should be a no-op, got %v", err)
	}
	if err := player.Play(context.Background(), "a.wav", trim.Window{Start: 0, End: 1}); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestRecorder(t *testing.T) {
	var rec playback.Recorder
	var p playback.Player = &rec
	_ = p.Play(context.Background(), "x.wav", trim.Window{Start: 1, End: 2})
	p.Stop()
	if len(rec.Plays()) != 1 || rec.Stops() != 1 {
		t.Fatalf("unexpected recorder state %v %d", rec.Plays(), rec.Stops())
	}
	var _ playback.Player = playback.Nop{}
}

func waitForStarts(t *testing.T, marker string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, _ := os.ReadFile(marker)
		if strings.Count(string(data), "start") == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d ffplay starts, got %q", want, data)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
