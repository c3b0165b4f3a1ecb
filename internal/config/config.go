package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"impulsetrim/internal/trim"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives dst.wav and video_for_ocr.mp4. When empty it is
	// derived from the input directory.
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
}

// Selection contains the trim-window constants.
type Selection struct {
	MarginSeconds        float64 `toml:"margin_seconds"`
	PreviewMS            int     `toml:"preview_ms"`
	FixedDurationSeconds float64 `toml:"fixed_duration_seconds"`
	StartMode            string  `toml:"start_mode"`
	EndMode              string  `toml:"end_mode"`
}

// Audio contains decode settings.
type Audio struct {
	// Channel is "first" (keep channel 0) or "mix" (average channels).
	Channel string `toml:"channel"`
}

// Export contains clip export settings.
type Export struct {
	Video      bool   `toml:"video"`
	VideoCodec string `toml:"video_codec"`
	MinFreeMiB int    `toml:"min_free_mib"`
}

// OCR contains counter recognition settings.
type OCR struct {
	// Crop is x, y, width, height in source pixels.
	Crop     []int   `toml:"crop"`
	PSM      int     `toml:"psm"`
	Language string  `toml:"language"`
	FPS      float64 `toml:"fps"`
	// ClipLimit and Tiles tune the contrast equalization before
	// binarization. A clip limit of 0 disables equalization.
	ClipLimit float64 `toml:"clip_limit"`
	Tiles     int     `toml:"tiles"`
}

// Tools names the external binaries.
type Tools struct {
	FFmpeg    string `toml:"ffmpeg"`
	FFprobe   string `toml:"ffprobe"`
	FFplay    string `toml:"ffplay"`
	Tesseract string `toml:"tesseract"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for impulsetrim.
//
// Configuration sections by subsystem:
//   - Paths: output and state directories
//   - Selection: impulse margin, preview length, fixed clip duration, initial modes
//   - Audio: mono reduction
//   - Export: video export and free-space guard
//   - OCR: crop rectangle and tesseract settings
//   - Tools: external binary names
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Selection Selection `toml:"selection"`
	Audio     Audio     `toml:"audio"`
	Export    Export    `toml:"export"`
	OCR       OCR       `toml:"ocr"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/impulsetrim/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("impulsetrim.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory. The output directory is
// created by the exporter once a clip is actually written.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// LedgerPath returns the SQLite ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "impulsetrim.log")
}

// SelectorParams converts the selection section into trim parameters.
// Load has already validated the mode names.
func (c *Config) SelectorParams() trim.Params {
	startMode, _ := trim.ParseStartMode(c.Selection.StartMode)
	endMode, _ := trim.ParseEndMode(c.Selection.EndMode)
	return trim.Params{
		MarginSeconds:        c.Selection.MarginSeconds,
		PreviewMillis:        c.Selection.PreviewMS,
		FixedDurationSeconds: c.Selection.FixedDurationSeconds,
		StartMode:            startMode,
		EndMode:              endMode,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
