package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"impulsetrim/internal/ledger"
	"impulsetrim/internal/logging"
	"impulsetrim/internal/media/export"
	"impulsetrim/internal/media/inputs"
	"impulsetrim/internal/playback"
	"impulsetrim/internal/services"
	"impulsetrim/internal/trim"
)

// ErrClosed is returned for interactions after a successful save.
var ErrClosed = errors.New("session already saved")

// Exporter writes finalized clips.
type Exporter interface {
	Clip(ctx context.Context, req export.Request) (export.Result, error)
}

// Ledger records saved clips.
type Ledger interface {
	RecordClip(ctx context.Context, clip ledger.Clip) (ledger.Clip, error)
}

// Options wires a session. Player and Ledger are optional.
type Options struct {
	Recording   inputs.Recording
	Signal      trim.Source
	Params      trim.Params
	OutputDir   string
	ExportVideo bool
	Player      playback.Player
	Exporter    Exporter
	Ledger      Ledger
	Logger      *slog.Logger
}

// Feedback is what a presentation layer shows after an interaction.
type Feedback struct {
	Message    string
	Preview    trim.Window
	HasPreview bool
	State      trim.Transition
	Selection  trim.Selection
	// Err is set when the interaction was rejected; state is unchanged.
	Err error
}

// Session is a single trim interaction. Like the selector it wraps, it is
// driven from one event loop.
type Session struct {
	id        string
	rec       inputs.Recording
	sel       *trim.Selector
	outputDir string
	video     bool
	player    playback.Player
	exporter  Exporter
	ledger    Ledger
	logger    *slog.Logger
	saved     *ledger.Clip
	// startedBy is the start mode that placed the current start anchor,
	// which can differ from the mode active at save time.
	startedBy trim.StartMode
}

// New validates opts and starts a session with a fresh id.
func New(opts Options) (*Session, error) {
	if opts.Exporter == nil {
		return nil, errors.New("session: exporter is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, errors.New("session: output directory is required")
	}
	if opts.Recording.SignalPath() == "" {
		return nil, errors.New("session: recording has no media")
	}
	if opts.ExportVideo && opts.Recording.Video == "" {
		return nil, services.Wrap(services.ErrNotFound, "session", "video export", "no video file in "+opts.Recording.Dir, nil)
	}
	sel, err := trim.NewSelector(opts.Signal, opts.Params)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "selector", "", err)
	}
	player := opts.Player
	if player == nil {
		player = playback.Nop{}
	}
	id := uuid.NewString()
	return &Session{
		id:        id,
		rec:       opts.Recording,
		sel:       sel,
		outputDir: opts.OutputDir,
		video:     opts.ExportVideo,
		player:    player,
		exporter:  opts.Exporter,
		ledger:    opts.Ledger,
		logger:    logging.NewComponentLogger(opts.Logger, "session").With(logging.String(logging.FieldSessionID, id)),
	}, nil
}

// ID returns the session identifier recorded with the clip.
func (s *Session) ID() string { return s.id }

// Context tags ctx with the session id for downstream loggers.
func (s *Session) Context(ctx context.Context) context.Context {
	return services.WithSessionID(ctx, s.id)
}

// Recording returns the media the session trims.
func (s *Session) Recording() inputs.Recording { return s.rec }

// OutputDir returns where clips are written.
func (s *Session) OutputDir() string { return s.outputDir }

// Duration returns the signal duration in seconds.
func (s *Session) Duration() float64 { return s.sel.Duration() }

// Saved returns the recorded clip once Save succeeded.
func (s *Session) Saved() (ledger.Clip, bool) {
	if s.saved == nil {
		return ledger.Clip{}, false
	}
	return *s.saved, true
}

// Status reports the current state without changing it.
func (s *Session) Status() Feedback {
	return s.feedback(FormatSelection(s.sel.Selection()))
}

// Labels returns the start and end captions for the current modes.
func (s *Session) Labels() (string, string) {
	return StartLabel(s.sel.StartMode()), EndLabel(s.sel.EndMode(), s.sel.Params().FixedDurationSeconds)
}

// Toggle handles a press on the start or end control: the first press makes
// target active, a second press cycles its mode. Any running preview stops.
func (s *Session) Toggle(ctx context.Context, target trim.Target) Feedback {
	if s.saved != nil {
		return s.reject(ErrClosed)
	}
	tr := s.sel.CycleBoundaryMode(target)
	if tr.StopPreview {
		s.player.Stop()
	}
	start, end := s.Labels()
	s.log(ctx).Info("boundary toggled",
		logging.String("target", tr.Target.String()),
		logging.String("start_mode", tr.StartMode.String()),
		logging.String("end_mode", tr.EndMode.String()),
	)
	fb := s.feedback(fmt.Sprintf("%s active: %s | %s", titler.String(tr.Target.String()), start, end))
	fb.State = tr
	return fb
}

// Click places the active boundary at t when that boundary is in manual
// mode. Clicks in impulse or fixed mode are ignored with an explanation.
func (s *Session) Click(ctx context.Context, t float64) Feedback {
	if s.saved != nil {
		return s.reject(ErrClosed)
	}
	window, err := s.sel.ResolveManualPoint(t)
	if err != nil {
		s.log(ctx).Debug("click ignored", logging.Float64("time", t), logging.Error(err))
		return s.reject(err)
	}
	if s.sel.Target() == trim.TargetStart {
		s.startedBy = trim.StartManual
	}
	s.preview(ctx, window)
	s.log(ctx).Info("manual point placed",
		logging.String("target", s.sel.Target().String()),
		logging.Float64("time", t),
	)
	fb := s.feedback(FormatSelection(s.sel.Selection()))
	fb.Preview, fb.HasPreview = window, true
	return fb
}

// Drag searches [a, b] for the impulse and anchors the start boundary after
// it. Drags only apply while the start boundary is active in impulse mode.
func (s *Session) Drag(ctx context.Context, a, b float64) Feedback {
	if s.saved != nil {
		return s.reject(ErrClosed)
	}
	if s.sel.Target() != trim.TargetStart || s.sel.StartMode() != trim.StartImpulse {
		fb := s.reject(trim.ErrInvalidMode)
		fb.Message = "Range selection needs the start boundary in impulse mode."
		return fb
	}
	if b < a {
		a, b = b, a
	}
	window, err := s.sel.ResolveImpulseAnchor(a, b)
	if err != nil {
		s.log(ctx).Debug("drag ignored", logging.Float64("from", a), logging.Float64("to", b), logging.Error(err))
		return s.reject(err)
	}
	s.startedBy = trim.StartImpulse
	s.preview(ctx, window)
	attrs := logging.Decision("impulse_anchor", "placed", fmt.Sprintf("loudest sample in %.3f-%.3f", a, b))
	attrs = append(attrs, logging.Float64("start_seconds", s.sel.Selection().Start))
	s.log(ctx).Info("impulse anchor placed", logging.Args(attrs...)...)

	fb := s.feedback(FormatSelection(s.sel.Selection()))
	fb.Preview, fb.HasPreview = window, true
	return fb
}

// Save finalizes the selection, exports the clip and records it. On any
// failure the session stays open so the user can adjust and retry.
func (s *Session) Save(ctx context.Context) Feedback {
	if s.saved != nil {
		return s.reject(ErrClosed)
	}
	ctx = services.WithStage(s.Context(ctx), "save")
	bounds, err := s.sel.FinalizeSelection()
	if err != nil {
		var short *trim.InsufficientLengthError
		if errors.As(err, &short) {
			fb := s.reject(err)
			fb.Message = fmt.Sprintf("Cannot extract %g sec from the selected start point. Only %.2f sec remains.", short.Requested, short.Remaining)
			return fb
		}
		return s.reject(err)
	}
	s.player.Stop()

	req := export.Request{Audio: s.rec.SignalPath(), DstDir: s.outputDir, Bounds: bounds}
	if s.video {
		req.Video = s.rec.Video
	}
	res, err := s.exporter.Clip(ctx, req)
	if err != nil {
		s.log(ctx).Error("export failed", logging.Error(err))
		return s.reject(err)
	}

	clip := ledger.Clip{
		SessionID:    s.id,
		SourceAudio:  s.rec.Audio,
		SourceVideo:  s.rec.Video,
		StartSeconds: bounds.Start,
		EndSeconds:   bounds.End,
		StartMode:    s.startedBy.String(),
		EndMode:      s.sel.EndMode().String(),
		AudioPath:    res.AudioPath,
		VideoPath:    res.VideoPath,
	}
	if s.ledger != nil {
		recorded, err := s.ledger.RecordClip(ctx, clip)
		if err != nil {
			// The clip is on disk; a ledger failure must not hide that.
			s.log(ctx).Warn("ledger record failed", logging.Error(err))
		} else {
			clip = recorded
		}
	}
	s.saved = &clip

	s.log(ctx).Info("selection saved",
		logging.Float64("start_seconds", bounds.Start),
		logging.Float64("end_seconds", bounds.End),
		logging.String("audio_path", res.AudioPath),
		logging.String("video_path", res.VideoPath),
	)
	msg := "Saved selected audio to " + res.AudioPath
	if res.VideoPath != "" {
		msg += " and video to " + res.VideoPath
	}
	return s.feedback(msg)
}

// Close stops any running preview.
func (s *Session) Close() {
	s.player.Stop()
}

func (s *Session) preview(ctx context.Context, window trim.Window) {
	if err := s.player.Play(s.Context(ctx), s.rec.SignalPath(), window); err != nil {
		s.log(ctx).Warn("preview failed", logging.Error(err))
	}
}

func (s *Session) feedback(msg string) Feedback {
	return Feedback{Message: msg, State: s.sel.State(), Selection: s.sel.Selection()}
}

func (s *Session) reject(err error) Feedback {
	fb := s.feedback(describe(err, s.sel))
	fb.Err = err
	return fb
}

func (s *Session) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}

func describe(err error, sel *trim.Selector) string {
	var missing *trim.MissingBoundaryError
	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("Place the %s point before saving.", missing.Target)
	case errors.Is(err, trim.ErrOutOfBounds):
		return fmt.Sprintf("Point is outside the recording (0-%.2f sec).", sel.Duration())
	case errors.Is(err, trim.ErrDegenerateRange):
		return "Selection is empty; the end must come after the start."
	case errors.Is(err, trim.ErrInvalidMode):
		return fmt.Sprintf("The %s boundary is not in manual mode.", sel.Target())
	case errors.Is(err, ErrClosed):
		return "The selection was already saved."
	default:
		return err.Error()
	}
}
