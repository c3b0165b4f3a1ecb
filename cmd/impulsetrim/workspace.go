package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"impulsetrim/internal/config"
	"impulsetrim/internal/deps"
	"impulsetrim/internal/ledger"
	"impulsetrim/internal/logging"
	"impulsetrim/internal/media/export"
	"impulsetrim/internal/media/inputs"
	"impulsetrim/internal/pcm"
	"impulsetrim/internal/playback"
	"impulsetrim/internal/preflight"
	"impulsetrim/internal/services"
	"impulsetrim/internal/session"
)

// workspace is an opened recording with its session and ledger.
type workspace struct {
	cfg     *config.Config
	logger  *slog.Logger
	rec     inputs.Recording
	signal  *pcm.Signal
	store   *ledger.Store
	session *session.Session
}

type workspaceOptions struct {
	// FileOnlyLog keeps log output off the terminal.
	FileOnlyLog bool
	// Player overrides the preview player. Nil picks ffplay when it is
	// installed and Nop otherwise.
	Player playback.Player
	// Video forces the video export on, in addition to the config.
	Video bool
}

// openWorkspace resolves path, decodes its audio and starts a session.
func (c *commandContext) openWorkspace(ctx context.Context, path string, opts workspaceOptions) (*workspace, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(opts.FileOnlyLog)
	if err != nil {
		return nil, err
	}

	exportVideo := cfg.Export.Video || opts.Video
	req := inputs.RequireAny
	if exportVideo {
		req = inputs.RequireBoth
	}
	rec, err := inputs.Resolve(path, req)
	if err != nil {
		return nil, err
	}

	if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, m.Command)
		}
		return nil, services.Wrap(services.ErrConfiguration, "startup", "check tools", "missing "+strings.Join(names, ", "), nil)
	}
	for _, result := range preflight.RunAll(cfg, "") {
		if !result.Passed {
			return nil, services.Wrap(services.ErrConfiguration, "startup", result.Name, result.Detail, nil)
		}
	}

	channel, err := pcm.ParseChannel(cfg.Audio.Channel)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "audio channel", "", err)
	}
	signal, err := pcm.Decode(ctx, rec.SignalPath(), pcm.DecodeOptions{
		FFmpeg:  cfg.Tools.FFmpeg,
		FFprobe: cfg.Tools.FFprobe,
		Channel: channel,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	store, err := ledger.Open(ctx, cfg.LedgerPath())
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "open ledger", cfg.LedgerPath(), err)
	}

	player := opts.Player
	if player == nil {
		player = defaultPlayer(cfg, logger)
	}
	sess, err := session.New(session.Options{
		Recording:   rec,
		Signal:      signal,
		Params:      cfg.SelectorParams(),
		OutputDir:   inputs.OutputDir(cfg.Paths.OutputDir, rec),
		ExportVideo: exportVideo,
		Player:      player,
		Exporter:    export.New(cfg, logger),
		Ledger:      store,
		Logger:      logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info("recording opened",
		logging.String(logging.FieldSessionID, sess.ID()),
		logging.String("audio", rec.Audio),
		logging.String("video", rec.Video),
		logging.Float64("duration_seconds", signal.Duration()),
		logging.String("output_dir", sess.OutputDir()),
	)
	return &workspace{cfg: cfg, logger: logger, rec: rec, signal: signal, store: store, session: sess}, nil
}

func (w *workspace) Close() {
	w.session.Close()
	if err := w.store.Close(); err != nil {
		w.logger.Warn("close ledger", logging.Error(err))
	}
}

func defaultPlayer(cfg *config.Config, logger *slog.Logger) playback.Player {
	if _, err := exec.LookPath(cfg.Tools.FFplay); err != nil {
		logger.Info("ffplay not found; previews are silent", logging.String("ffplay", cfg.Tools.FFplay))
		return playback.Nop{}
	}
	return playback.NewFFplay(cfg.Tools.FFplay, logger)
}

func describeFeedback(fb session.Feedback) string {
	if fb.HasPreview {
		return fmt.Sprintf("%s (preview %.3f-%.3f s)", fb.Message, fb.Preview.Start, fb.Preview.End)
	}
	return fb.Message
}
