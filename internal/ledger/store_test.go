package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"impulsetrim/internal/ledger"
	"impulsetrim/internal/ocr"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(context.Background(), filepath.Join(t.TempDir(), "state", "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListClips(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.RecordClip(ctx, ledger.Clip{
		SourceAudio:  "/raw/take/mic.wav",
		StartSeconds: 3.5,
		EndSeconds:   23.5,
		StartMode:    "impulse",
		EndMode:      "fixed",
		AudioPath:    "/processed/take/dst.wav",
		CreatedAt:    base,
	})
	if err != nil {
		t.Fatalf("RecordClip: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated id")
	}
	second, err := store.RecordClip(ctx, ledger.Clip{
		SessionID:    "s-2",
		StartSeconds: 1,
		EndSeconds:   4,
		StartMode:    "manual",
		EndMode:      "manual",
		VideoPath:    "/processed/take/video_for_ocr.mp4",
		CreatedAt:    base.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("RecordClip: %v", err)
	}

	clips, err := store.ListClips(ctx, 0)
	if err != nil {
		t.Fatalf("ListClips: %v", err)
	}
	if len(clips) != 2 || clips[0].ID != second.ID || clips[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", clips)
	}
	if clips[1].Duration() != 20 || !clips[1].CreatedAt.Equal(base) {
		t.Fatalf("unexpected stored clip %+v", clips[1])
	}

	limited, err := store.ListClips(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("ListClips(1) = %v, %v", limited, err)
	}

	got, err := store.GetClip(ctx, first.ID)
	if err != nil || got.AudioPath != first.AudioPath {
		t.Fatalf("GetClip = %+v, %v", got, err)
	}
	if _, err := store.GetClip(ctx, "missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byVideo, err := store.ClipByVideo(ctx, "/processed/take/video_for_ocr.mp4")
	if err != nil || byVideo.ID != second.ID {
		t.Fatalf("ClipByVideo = %+v, %v", byVideo, err)
	}
}

func TestReadingsReplacePrevious(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	clip, err := store.RecordClip(ctx, ledger.Clip{StartSeconds: 0, EndSeconds: 1, StartMode: "manual", EndMode: "manual"})
	if err != nil {
		t.Fatalf("RecordClip: %v", err)
	}

	if err := store.RecordReadings(ctx, clip.ID, []ocr.Reading{{Frame: 0, Value: 1, OK: true, Raw: "1"}}); err != nil {
		t.Fatalf("RecordReadings: %v", err)
	}
	want := []ocr.Reading{
		{Frame: 0, Value: 1200, OK: true, Raw: "1200"},
		{Frame: 1, Raw: "--"},
	}
	if err := store.RecordReadings(ctx, clip.ID, want); err != nil {
		t.Fatalf("RecordReadings: %v", err)
	}
	got, err := store.Readings(ctx, clip.ID)
	if err != nil {
		t.Fatalf("Readings: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d readings, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reading %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if err := store.RecordReadings(ctx, "no-such-clip", want); err == nil {
		t.Fatal("expected foreign key violation for unknown clip")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()
	store, err := ledger.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.RecordClip(ctx, ledger.Clip{StartSeconds: 0, EndSeconds: 2, StartMode: "impulse", EndMode: "fixed"}); err != nil {
		t.Fatalf("RecordClip: %v", err)
	}
	_ = store.Close()

	reopened, err := ledger.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	clips, err := reopened.ListClips(ctx, 0)
	if err != nil || len(clips) != 1 {
		t.Fatalf("expected one clip after reopen, got %v %v", clips, err)
	}
}
