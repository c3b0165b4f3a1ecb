package config

import (
	"errors"
	"fmt"

	"impulsetrim/internal/trim"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.MarginSeconds < 0 {
		return errors.New("selection.margin_seconds must be >= 0")
	}
	if c.Selection.PreviewMS <= 0 {
		return errors.New("selection.preview_ms must be positive")
	}
	if c.Selection.FixedDurationSeconds <= 0 {
		return errors.New("selection.fixed_duration_seconds must be positive")
	}
	if _, err := trim.ParseStartMode(c.Selection.StartMode); err != nil {
		return fmt.Errorf("selection.start_mode: %w", err)
	}
	if _, err := trim.ParseEndMode(c.Selection.EndMode); err != nil {
		return fmt.Errorf("selection.end_mode: %w", err)
	}
	return nil
}

func (c *Config) validateAudio() error {
	switch c.Audio.Channel {
	case "first", "mix":
		return nil
	default:
		return fmt.Errorf("audio.channel must be first or mix, got %q", c.Audio.Channel)
	}
}

func (c *Config) validateExport() error {
	if c.Export.MinFreeMiB < 0 {
		return errors.New("export.min_free_mib must be >= 0")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if len(c.OCR.Crop) != 4 {
		return fmt.Errorf("ocr.crop must have 4 values (x, y, width, height), got %d", len(c.OCR.Crop))
	}
	if c.OCR.Crop[0] < 0 || c.OCR.Crop[1] < 0 {
		return errors.New("ocr.crop offsets must be >= 0")
	}
	if c.OCR.Crop[2] <= 0 || c.OCR.Crop[3] <= 0 {
		return errors.New("ocr.crop width and height must be positive")
	}
	if c.OCR.PSM < 0 || c.OCR.PSM > 13 {
		return errors.New("ocr.psm must be between 0 and 13")
	}
	if c.OCR.FPS < 0 {
		return errors.New("ocr.fps must be >= 0")
	}
	if c.OCR.ClipLimit < 0 {
		return errors.New("ocr.clip_limit must be >= 0")
	}
	return nil
}
