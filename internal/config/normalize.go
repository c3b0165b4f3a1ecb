package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSelection()
	c.normalizeExport()
	c.normalizeOCR()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSelection() {
	c.Selection.StartMode = strings.ToLower(strings.TrimSpace(c.Selection.StartMode))
	if c.Selection.StartMode == "" {
		c.Selection.StartMode = defaultStartMode
	}
	c.Selection.EndMode = strings.ToLower(strings.TrimSpace(c.Selection.EndMode))
	if c.Selection.EndMode == "" {
		c.Selection.EndMode = defaultEndMode
	}
	c.Audio.Channel = strings.ToLower(strings.TrimSpace(c.Audio.Channel))
	if c.Audio.Channel == "" {
		c.Audio.Channel = defaultChannel
	}
}

func (c *Config) normalizeExport() {
	c.Export.VideoCodec = strings.TrimSpace(c.Export.VideoCodec)
	if c.Export.VideoCodec == "" {
		c.Export.VideoCodec = defaultVideoCodec
	}
}

func (c *Config) normalizeOCR() {
	if len(c.OCR.Crop) == 0 {
		c.OCR.Crop = append([]int(nil), defaultCrop...)
	}
	if c.OCR.PSM == 0 {
		c.OCR.PSM = defaultOCRPSM
	}
	if c.OCR.Tiles <= 0 {
		c.OCR.Tiles = defaultOCRTiles
	}
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
}

func (c *Config) normalizeTools() {
	defaults := Default().Tools
	for _, pair := range []struct {
		value    *string
		fallback string
	}{
		{&c.Tools.FFmpeg, defaults.FFmpeg},
		{&c.Tools.FFprobe, defaults.FFprobe},
		{&c.Tools.FFplay, defaults.FFplay},
		{&c.Tools.Tesseract, defaults.Tesseract},
	} {
		*pair.value = strings.TrimSpace(*pair.value)
		if *pair.value == "" {
			*pair.value = pair.fallback
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
