package pcm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"impulsetrim/internal/logging"
	"impulsetrim/internal/media/ffprobe"
	"impulsetrim/internal/services"
)

// Channel selects how multi-channel audio is reduced to mono.
type Channel string

const (
	// ChannelFirst keeps only the first channel.
	ChannelFirst Channel = "first"
	// ChannelMix averages all channels.
	ChannelMix Channel = "mix"
)

// ParseChannel accepts "first" or "mix"; empty means first.
func ParseChannel(value string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(value))) {
	case "", ChannelFirst:
		return ChannelFirst, nil
	case ChannelMix:
		return ChannelMix, nil
	default:
		return "", fmt.Errorf("unknown channel selection %q (want first or mix)", value)
	}
}

// DecodeOptions configures Decode.
type DecodeOptions struct {
	FFmpeg  string
	FFprobe string
	Channel Channel
	Logger  *slog.Logger
}

// Decode reads the first audio stream of path (a WAV file or a video
// container) into a mono Signal at its native sample rate.
func Decode(ctx context.Context, path string, opts DecodeOptions) (*Signal, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "decoder"))
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, "decode", "validate input", "empty path", nil)
	}

	probe, err := ffprobe.Inspect(ctx, opts.FFprobe, path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "ffprobe", "inspect "+path, err)
	}
	stream, ok := probe.FirstAudio()
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "decode", "select stream", "no audio stream in "+path, nil)
	}
	rate := stream.SampleRateHz()
	if rate <= 0 {
		return nil, services.Wrap(services.ErrValidation, "decode", "select stream", fmt.Sprintf("unusable sample rate %q", stream.SampleRate), nil)
	}

	raw, err := runDecoder(ctx, opts.FFmpeg, decodeArgs(path, opts.Channel))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "ffmpeg", "decode "+path, err)
	}
	signal, err := New(samplesFromBytes(raw), rate, stream.Channels)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "decode", "build signal", "", err)
	}

	logger.Debug("decoded signal",
		logging.String("path", path),
		logging.Int("sample_rate", rate),
		logging.Int("channels", stream.Channels),
		logging.Int("samples", signal.Len()),
		logging.Float64("duration_seconds", signal.Duration()),
	)
	return signal, nil
}

func decodeArgs(path string, channel Channel) []string {
	args := []string{"-v", "error", "-nostdin", "-i", path, "-map", "0:a:0"}
	if channel == ChannelMix {
		args = append(args, "-ac", "1")
	} else {
		args = append(args, "-af", "pan=mono|c0=c0")
	}
	return append(args, "-f", "s16le", "-acodec", "pcm_s16le", "pipe:1")
}

func runDecoder(ctx context.Context, binary string, args []string) ([]byte, error) {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

func samplesFromBytes(raw []byte) []int16 {
	// A trailing odd byte cannot form a sample.
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return samples
}
