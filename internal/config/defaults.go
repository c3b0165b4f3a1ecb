package config

const (
	defaultStateDir             = "~/.local/share/impulsetrim"
	defaultMarginSeconds        = 0.5
	defaultPreviewMS            = 500
	defaultFixedDurationSeconds = 20
	defaultStartMode            = "impulse"
	defaultEndMode              = "fixed"
	defaultChannel              = "first"
	defaultVideoCodec           = "libx264"
	defaultMinFreeMiB           = 64
	defaultOCRPSM               = 7
	defaultOCRLanguage          = "eng"
	defaultOCRClipLimit         = 7.0
	defaultOCRTiles             = 8
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// defaultCrop is the counter region of the reference camera framing
// (x, y, width, height).
var defaultCrop = []int{218, 1097, 558, 214}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Selection: Selection{
			MarginSeconds:        defaultMarginSeconds,
			PreviewMS:            defaultPreviewMS,
			FixedDurationSeconds: defaultFixedDurationSeconds,
			StartMode:            defaultStartMode,
			EndMode:              defaultEndMode,
		},
		Audio: Audio{
			Channel: defaultChannel,
		},
		Export: Export{
			VideoCodec: defaultVideoCodec,
			MinFreeMiB: defaultMinFreeMiB,
		},
		OCR: OCR{
			Crop:      append([]int(nil), defaultCrop...),
			PSM:       defaultOCRPSM,
			Language:  defaultOCRLanguage,
			ClipLimit: defaultOCRClipLimit,
			Tiles:     defaultOCRTiles,
		},
		Tools: Tools{
			FFmpeg:    "ffmpeg",
			FFprobe:   "ffprobe",
			FFplay:    "ffplay",
			Tesseract: "tesseract",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
