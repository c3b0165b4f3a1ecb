package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"impulsetrim/internal/config"
	"impulsetrim/internal/logging"
	"impulsetrim/internal/pcm"
	"impulsetrim/internal/preflight"
	"impulsetrim/internal/services"
	"impulsetrim/internal/trim"
)

const (
	// AudioName is the file name of the exported audio clip.
	AudioName = "dst.wav"
	// VideoName is the file name of the exported video clip.
	VideoName = "video_for_ocr.mp4"

	lockName = ".impulsetrim.lock"
)

// ErrBusy reports that another process is exporting into the same directory.
var ErrBusy = errors.New("destination directory is locked by another export")

// Exporter cuts clips out of source media.
type Exporter struct {
	ffmpeg     string
	channel    pcm.Channel
	videoCodec string
	minFreeMiB int
	logger     *slog.Logger
}

// New builds an exporter from the tools and export sections of cfg.
func New(cfg *config.Config, logger *slog.Logger) *Exporter {
	channel, err := pcm.ParseChannel(cfg.Audio.Channel)
	if err != nil {
		channel = pcm.ChannelFirst
	}
	return &Exporter{
		ffmpeg:     cfg.Tools.FFmpeg,
		channel:    channel,
		videoCodec: cfg.Export.VideoCodec,
		minFreeMiB: cfg.Export.MinFreeMiB,
		logger:     logging.NewComponentLogger(logger, "exporter"),
	}
}

// Request names the sources of one clip. Video may be empty.
type Request struct {
	Audio  string
	Video  string
	DstDir string
	Bounds trim.Bounds
}

// Result lists the files written by Clip. VideoPath is empty when no video
// was requested.
type Result struct {
	AudioPath string
	VideoPath string
}

// Clip writes the audio clip and, when req.Video is set, the video clip
// under a single directory lock.
func (e *Exporter) Clip(ctx context.Context, req Request) (Result, error) {
	if err := validateBounds(req.Bounds); err != nil {
		return Result{}, err
	}
	unlock, err := e.prepare(req.DstDir)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	var res Result
	if res.AudioPath, err = e.writeAudio(ctx, req.Audio, req.DstDir, req.Bounds); err != nil {
		return Result{}, err
	}
	if req.Video != "" {
		if res.VideoPath, err = e.writeVideo(ctx, req.Video, req.DstDir, req.Bounds); err != nil {
			// A clip is the audio and video pair; drop the half already written.
			if rmErr := os.Remove(res.AudioPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				logging.WithContext(ctx, e.logger).Warn("remove audio clip after video failure",
					logging.String("path", res.AudioPath), logging.Error(rmErr))
			}
			return Result{}, err
		}
	}
	return res, nil
}

// Audio writes dst.wav for bounds of src into dstDir and returns its path.
func (e *Exporter) Audio(ctx context.Context, src, dstDir string, bounds trim.Bounds) (string, error) {
	if err := validateBounds(bounds); err != nil {
		return "", err
	}
	unlock, err := e.prepare(dstDir)
	if err != nil {
		return "", err
	}
	defer unlock()
	return e.writeAudio(ctx, src, dstDir, bounds)
}

// Video writes video_for_ocr.mp4 for bounds of src into dstDir and returns
// its path.
func (e *Exporter) Video(ctx context.Context, src, dstDir string, bounds trim.Bounds) (string, error) {
	if err := validateBounds(bounds); err != nil {
		return "", err
	}
	unlock, err := e.prepare(dstDir)
	if err != nil {
		return "", err
	}
	defer unlock()
	return e.writeVideo(ctx, src, dstDir, bounds)
}

func validateBounds(b trim.Bounds) error {
	if math.IsNaN(b.Start) || math.IsNaN(b.End) || b.Start < 0 || b.End <= b.Start {
		return services.Wrap(services.ErrValidation, "export", "validate bounds",
			fmt.Sprintf("invalid clip bounds %.3f-%.3f", b.Start, b.End), nil)
	}
	return nil
}

// prepare creates dstDir, takes the directory lock and checks free space.
// The returned func releases the lock.
func (e *Exporter) prepare(dstDir string) (func(), error) {
	if strings.TrimSpace(dstDir) == "" {
		return nil, services.Wrap(services.ErrValidation, "export", "prepare", "empty destination directory", nil)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "create destination", dstDir, err)
	}

	lock := flock.New(filepath.Join(dstDir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "export", "acquire lock", dstDir, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "export", "acquire lock", dstDir, ErrBusy)
	}
	unlock := func() {
		if err := lock.Unlock(); err != nil {
			e.logger.Warn("release export lock failed", logging.String("dir", dstDir), logging.Error(err))
		}
	}

	if check := preflight.CheckFreeSpace("destination", dstDir, e.minFreeMiB); !check.Passed {
		unlock()
		return nil, services.Wrap(services.ErrValidation, "export", "free space", check.Detail, nil)
	}
	return unlock, nil
}

func (e *Exporter) writeAudio(ctx context.Context, src, dstDir string, b trim.Bounds) (string, error) {
	args := append(cutArgs(src, b), "-map", "0:a:0")
	if e.channel == pcm.ChannelMix {
		args = append(args, "-ac", "1")
	} else {
		args = append(args, "-af", "pan=mono|c0=c0")
	}
	args = append(args, "-c:a", "pcm_s16le", "-f", "wav")
	return e.run(ctx, args, filepath.Join(dstDir, AudioName), b)
}

func (e *Exporter) writeVideo(ctx context.Context, src, dstDir string, b trim.Bounds) (string, error) {
	codec := strings.TrimSpace(e.videoCodec)
	if codec == "" {
		codec = "libx264"
	}
	args := append(cutArgs(src, b), "-map", "0:v:0", "-an", "-c:v", codec)
	if codec != "copy" {
		args = append(args, "-pix_fmt", "yuv420p")
	}
	args = append(args, "-f", "mp4")
	return e.run(ctx, args, filepath.Join(dstDir, VideoName), b)
}

// cutArgs seeks on the input side and limits the output duration.
func cutArgs(src string, b trim.Bounds) []string {
	return []string{
		"-v", "error", "-nostdin", "-y",
		"-ss", formatSeconds(b.Start),
		"-i", src,
		"-t", formatSeconds(b.Duration()),
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (e *Exporter) run(ctx context.Context, args []string, target string, b trim.Bounds) (string, error) {
	logger := logging.WithContext(ctx, e.logger)
	partial := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".partial")
	binary := strings.TrimSpace(e.ffmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary, append(args, partial)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(partial)
		detail := strings.TrimSpace(string(out))
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, "export", "ffmpeg", filepath.Base(target), ctx.Err())
		}
		return "", services.Wrap(services.ErrExternalTool, "export", "ffmpeg", filepath.Base(target)+": "+detail, err)
	}
	if err := os.Rename(partial, target); err != nil {
		_ = os.Remove(partial)
		return "", services.Wrap(services.ErrExternalTool, "export", "rename", target, err)
	}

	logger.Info("clip written",
		logging.String("path", target),
		logging.Float64("start_seconds", b.Start),
		logging.Float64("end_seconds", b.End),
	)
	return target, nil
}
