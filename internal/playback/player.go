package playback

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"impulsetrim/internal/logging"
	"impulsetrim/internal/services"
	"impulsetrim/internal/trim"
)

// Player plays preview windows of a media file.
type Player interface {
	// Play starts playing window of path, stopping any running preview.
	Play(ctx context.Context, path string, window trim.Window) error
	// Stop ends the running preview, if any.
	Stop()
}

// FFplay plays previews through a headless ffplay process.
type FFplay struct {
	binary string
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFFplay returns a player that runs binary (default "ffplay").
func NewFFplay(binary string, logger *slog.Logger) *FFplay {
	if strings.TrimSpace(binary) == "" {
		binary = "ffplay"
	}
	return &FFplay{binary: binary, logger: logging.NewComponentLogger(logger, "playback")}
}

func (p *FFplay) Play(ctx context.Context, path string, window trim.Window) error {
	p.Stop()
	if window.Empty() {
		return nil
	}

	playCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(playCtx, p.binary, Args(path, window)...)
	if err := cmd.Start(); err != nil {
		cancel()
		return services.Wrap(services.ErrExternalTool, "playback", "start ffplay", path, err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := cmd.Wait(); err != nil && playCtx.Err() == nil {
			p.logger.Debug("preview ended with error", logging.Error(err))
		}
	}()

	p.mu.Lock()
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	logging.WithContext(ctx, p.logger).Debug("preview started",
		logging.Float64("start_seconds", window.Start),
		logging.Float64("end_seconds", window.End),
	)
	return nil
}

// Stop kills the running ffplay process and waits for it to exit.
func (p *FFplay) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Playing reports whether a preview process is still running.
func (p *FFplay) Playing() bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Args builds the ffplay arguments for one preview window.
func Args(path string, window trim.Window) []string {
	return []string{
		"-nodisp", "-autoexit", "-loglevel", "error",
		"-ss", strconv.FormatFloat(window.Start, 'f', 3, 64),
		"-t", strconv.FormatFloat(window.Length(), 'f', 3, 64),
		path,
	}
}

// Nop discards previews. It is used when ffplay is missing or output is not
// a terminal.
type Nop struct{}

func (Nop) Play(context.Context, string, trim.Window) error { return nil }

func (Nop) Stop() {}

// Call is one preview request captured by Recorder.
type Call struct {
	Path   string
	Window trim.Window
}

// Recorder remembers previews instead of playing them. The headless auto
// command prints what it recorded.
type Recorder struct {
	mu    sync.Mutex
	plays []Call
	stops int
}

func (r *Recorder) Play(_ context.Context, path string, window trim.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plays = append(r.plays, Call{Path: path, Window: window})
	return nil
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

// Plays returns the recorded preview requests in order.
func (r *Recorder) Plays() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.plays...)
}

// Stops returns how many times Stop was called.
func (r *Recorder) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}
