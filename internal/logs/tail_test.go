package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"impulsetrim/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "impulsetrim.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\nd\npartial")

	lines, offset, err := logs.Last(path, 2, logs.Filter{})
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if strings.Join(lines, ",") != "c,d" {
		t.Fatalf("unexpected lines %#v", lines)
	}
	if offset != int64(len("a\nb\nc\nd\n")) {
		t.Fatalf("offset = %d, want end of last complete line", offset)
	}

	lines, _, err = logs.Last(path, 10, logs.Filter{})
	if err != nil || strings.Join(lines, ",") != "a,b,c,d" {
		t.Fatalf("short file: %#v %v", lines, err)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 5, logs.Filter{})
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestFilterMatchesConsoleAndJSON(t *testing.T) {
	id := "0b6f1c2e-8d4a-4f39-9c1e-5a7d2b3c4e5f"
	path := writeLog(t, strings.Join([]string{
		"2026-01-02 10:00:00 INFO session[0b6f1c2e]: boundary toggled",
		"2026-01-02 10:00:01 INFO session[ffffffff]: boundary toggled",
		`{"level":"INFO","msg":"selection saved","session_id":"` + id + `"}`,
		"2026-01-02 10:00:02 INFO exporter: clip written",
	}, "\n")+"\n")

	lines, _, err := logs.Last(path, 10, logs.Filter{SessionID: id})
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 || !strings.Contains(lines[0], "0b6f1c2e") || !strings.Contains(lines[1], "selection saved") {
		t.Fatalf("unexpected filtered lines %#v", lines)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, logs.Filter{})
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 20*time.Millisecond, logs.Filter{}, func(line string) {
			mu.Lock()
			seen = append(seen, line)
			mu.Unlock()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "later" {
		t.Fatalf("unexpected follow lines %#v", seen)
	}
}
