package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"impulsetrim/internal/config"
	"impulsetrim/internal/trim"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "impulsetrim")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.LedgerPath() != filepath.Join(wantState, "ledger.db") {
		t.Fatalf("unexpected ledger path %q", cfg.LedgerPath())
	}

	params := cfg.SelectorParams()
	if params != trim.DefaultParams() {
		t.Fatalf("expected default selector params, got %+v", params)
	}
	if cfg.Audio.Channel != "first" {
		t.Fatalf("unexpected channel %q", cfg.Audio.Channel)
	}
	if len(cfg.OCR.Crop) != 4 || cfg.OCR.PSM != 7 {
		t.Fatalf("unexpected OCR defaults: %+v", cfg.OCR)
	}
}

func TestLoadCustomFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"
state_dir = "` + filepath.ToSlash(filepath.Join(dir, "state")) + `"

[selection]
margin_seconds = 0
preview_ms = 2000
fixed_duration_seconds = 12.5
start_mode = "MANUAL"
end_mode = " manual "

[audio]
channel = "mix"

[tools]
ffmpeg = "  "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit path to resolve, got %q exists=%v", resolved, exists)
	}
	params := cfg.SelectorParams()
	if params.StartMode != trim.StartManual || params.EndMode != trim.EndManual {
		t.Fatalf("unexpected modes: %+v", params)
	}
	if params.MarginSeconds != 0 || params.PreviewMillis != 2000 || params.FixedDurationSeconds != 12.5 {
		t.Fatalf("unexpected params: %+v", params)
	}
	if cfg.Audio.Channel != "mix" {
		t.Fatalf("unexpected channel %q", cfg.Audio.Channel)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("expected blank tool to fall back, got %q", cfg.Tools.FFmpeg)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(filepath.Join(dir, "state")); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative margin", func(c *config.Config) { c.Selection.MarginSeconds = -1 }, "selection.margin_seconds"},
		{"zero preview", func(c *config.Config) { c.Selection.PreviewMS = 0 }, "selection.preview_ms"},
		{"zero duration", func(c *config.Config) { c.Selection.FixedDurationSeconds = 0 }, "selection.fixed_duration_seconds"},
		{"bad start mode", func(c *config.Config) { c.Selection.StartMode = "auto" }, "selection.start_mode"},
		{"bad end mode", func(c *config.Config) { c.Selection.EndMode = "20sec" }, "selection.end_mode"},
		{"bad channel", func(c *config.Config) { c.Audio.Channel = "left" }, "audio.channel"},
		{"short crop", func(c *config.Config) { c.OCR.Crop = []int{1, 2, 3} }, "ocr.crop"},
		{"empty crop area", func(c *config.Config) { c.OCR.Crop = []int{0, 0, 0, 10} }, "ocr.crop"},
		{"bad psm", func(c *config.Config) { c.OCR.PSM = 20 }, "ocr.psm"},
		{"negative free space", func(c *config.Config) { c.Export.MinFreeMiB = -1 }, "export.min_free_mib"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[selection]\nmargin = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.SelectorParams() != trim.DefaultParams() {
		t.Fatalf("sample should match defaults, got %+v", cfg.SelectorParams())
	}
}
