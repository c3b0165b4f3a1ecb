package deps

import (
	"os"
	"path/filepath"
	"testing"

	"impulsetrim/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)
	byName := map[string]Requirement{}
	for _, req := range reqs {
		byName[req.Name] = req
	}
	if byName["FFmpeg"].Optional || byName["FFprobe"].Optional {
		t.Fatal("ffmpeg and ffprobe are always required")
	}
	if !byName["FFplay"].Optional || !byName["Tesseract"].Optional {
		t.Fatal("ffplay and tesseract should be optional by default")
	}

	cfg.Export.Video = true
	for _, req := range Requirements(&cfg) {
		if req.Name == "Tesseract" && req.Optional {
			t.Fatal("tesseract should be required when video export is on")
		}
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "a"}, Available: true},
		{Requirement: Requirement{Name: "b", Optional: true}},
		{Requirement: Requirement{Name: "c"}},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "c" {
		t.Fatalf("unexpected missing list %#v", missing)
	}
}
