package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"impulsetrim/internal/config"
	"impulsetrim/internal/logging"
	"impulsetrim/internal/services"
)

// Reading is the recognized counter value of one frame.
type Reading struct {
	// Frame is the zero-based index of the sampled frame.
	Frame int
	Value int64
	// OK is false when the frame produced no digits.
	OK  bool
	Raw string
}

// Reader recognizes counter values in video frames.
type Reader struct {
	ffmpeg    string
	tesseract string
	crop      image.Rectangle
	psm       int
	language  string
	fps       float64
	clipLimit float64
	tiles     int
	logger    *slog.Logger
}

// NewReader builds a reader from the ocr and tools sections of cfg.
func NewReader(cfg *config.Config, logger *slog.Logger) (*Reader, error) {
	if len(cfg.OCR.Crop) != 4 {
		return nil, services.Wrap(services.ErrConfiguration, "ocr", "crop", "crop needs x, y, width, height", nil)
	}
	x, y, w, h := cfg.OCR.Crop[0], cfg.OCR.Crop[1], cfg.OCR.Crop[2], cfg.OCR.Crop[3]
	if w <= 0 || h <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "ocr", "crop", "empty crop rectangle", nil)
	}
	return &Reader{
		ffmpeg:    cfg.Tools.FFmpeg,
		tesseract: cfg.Tools.Tesseract,
		crop:      image.Rect(x, y, x+w, y+h),
		psm:       cfg.OCR.PSM,
		language:  cfg.OCR.Language,
		fps:       cfg.OCR.FPS,
		clipLimit: cfg.OCR.ClipLimit,
		tiles:     cfg.OCR.Tiles,
		logger:    logging.NewComponentLogger(logger, "ocr"),
	}, nil
}

// Scan extracts the counter region of every sampled frame of video and
// recognizes it. Frames without digits are returned with OK=false.
func (r *Reader) Scan(ctx context.Context, video string) ([]Reading, error) {
	logger := logging.WithContext(ctx, r.logger)
	workDir, err := os.MkdirTemp("", "impulsetrim-ocr-")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ocr", "temp dir", "", err)
	}
	defer os.RemoveAll(workDir)

	frames, err := r.extractFrames(ctx, video, workDir)
	if err != nil {
		return nil, err
	}
	logger.Info("frames extracted", logging.Int("frames", len(frames)), logging.String("video", video))

	readings := make([]Reading, 0, len(frames))
	for i, path := range frames {
		if err := ctx.Err(); err != nil {
			return readings, err
		}
		reading, err := r.readFrame(ctx, path, workDir)
		if err != nil {
			return readings, err
		}
		reading.Frame = i
		readings = append(readings, reading)
		logger.Debug("frame read",
			logging.Int("frame", i),
			logging.Bool("ok", reading.OK),
			logging.Int64("value", reading.Value),
		)
	}
	return readings, nil
}

func (r *Reader) extractFrames(ctx context.Context, video, dir string) ([]string, error) {
	filters := fmt.Sprintf("crop=%d:%d:%d:%d", r.crop.Dx(), r.crop.Dy(), r.crop.Min.X, r.crop.Min.Y)
	if r.fps > 0 {
		filters = "fps=" + strconv.FormatFloat(r.fps, 'f', -1, 64) + "," + filters
	}
	filters += ",format=gray"
	args := []string{
		"-v", "error", "-nostdin", "-i", video,
		"-vf", filters,
		"-f", "image2",
		filepath.Join(dir, "frame_%06d.png"),
	}
	if out, err := exec.CommandContext(ctx, binaryOr(r.ffmpeg, "ffmpeg"), args...).CombinedOutput(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "extract frames", strings.TrimSpace(string(out)), err)
	}
	frames, err := filepath.Glob(filepath.Join(dir, "frame_*.png"))
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, services.Wrap(services.ErrValidation, "ocr", "extract frames", "no frames in "+video, nil)
	}
	sort.Strings(frames)
	return frames, nil
}

func (r *Reader) readFrame(ctx context.Context, path, dir string) (Reading, error) {
	file, err := os.Open(path)
	if err != nil {
		return Reading{}, err
	}
	img, err := png.Decode(file)
	file.Close()
	if err != nil {
		return Reading{}, services.Wrap(services.ErrValidation, "ocr", "decode frame", filepath.Base(path), err)
	}
	return r.ReadImage(ctx, img, dir)
}

// ReadImage preprocesses an already cropped image and recognizes it. The
// binarized image is written to dir for tesseract.
func (r *Reader) ReadImage(ctx context.Context, img image.Image, dir string) (Reading, error) {
	gray := ToGray(img)
	if r.clipLimit > 0 {
		gray = Equalize(gray, r.clipLimit, r.tiles)
	}
	binary := Binarize(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, binary); err != nil {
		return Reading{}, err
	}
	input := filepath.Join(dir, "ocr_input.png")
	if err := os.WriteFile(input, buf.Bytes(), 0o644); err != nil {
		return Reading{}, err
	}

	raw, err := r.recognize(ctx, input)
	if err != nil {
		return Reading{}, err
	}
	value, ok := ParseDigits(raw)
	return Reading{Value: value, OK: ok, Raw: raw}, nil
}

func (r *Reader) recognize(ctx context.Context, input string) (string, error) {
	args := []string{input, "stdout", "--psm", strconv.Itoa(r.psm)}
	if r.language != "" {
		args = append(args, "-l", r.language)
	}
	cmd := exec.CommandContext(ctx, binaryOr(r.tesseract, "tesseract"), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", services.Wrap(services.ErrExternalTool, "ocr", "tesseract", strings.TrimSpace(stderr.String()), err)
		}
		return "", services.Wrap(services.ErrExternalTool, "ocr", "tesseract", "", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ParseDigits drops every rune that is not an ASCII digit and parses the rest. It reports
// false when no digits remain or the number does not fit in an int64.
func ParseDigits(text string) (int64, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func binaryOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
