package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"impulsetrim/internal/playback"
	"impulsetrim/internal/services"
	"impulsetrim/internal/session"
	"impulsetrim/internal/trim"
)

type autoOptions struct {
	drag  string
	start float64
	end   float64
	video bool
}

func newAutoCommand(ctx *commandContext) *cobra.Command {
	var opts autoOptions

	cmd := &cobra.Command{
		Use:   "auto <dir|file>",
		Short: "Export a clip without interaction",
		Long: `Export a clip from times given on the command line.

--drag a,b searches the range for the impulse and starts the clip after it.
--start t places the start directly. Without --end the clip has the fixed
duration from the config; --end t places the end directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			hasDrag, hasStart, hasEnd := flags.Changed("drag"), flags.Changed("start"), flags.Changed("end")
			if hasDrag == hasStart {
				return services.Wrap(services.ErrValidation, "auto", "flags", "give exactly one of --drag or --start", nil)
			}

			recorder := &playback.Recorder{}
			ws, err := ctx.openWorkspace(cmd.Context(), args[0], workspaceOptions{Player: recorder, Video: opts.video})
			if err != nil {
				return err
			}
			defer ws.Close()

			steps, err := autoSteps(opts, hasDrag, hasEnd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fb, err := runAuto(cmd.Context(), ws.session, steps, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, fb.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.drag, "drag", "", "Search range a,b in seconds for the impulse")
	cmd.Flags().Float64Var(&opts.start, "start", 0, "Manual start time in seconds")
	cmd.Flags().Float64Var(&opts.end, "end", 0, "Manual end time in seconds (default: fixed duration)")
	cmd.Flags().BoolVar(&opts.video, "video", false, "Also export the video clip for counter OCR")
	return cmd
}

// autoStep is one interaction replayed against a session.
type autoStep struct {
	name string
	run  func(context.Context, *session.Session) session.Feedback
}

func autoSteps(opts autoOptions, hasDrag, hasEnd bool) ([]autoStep, error) {
	var steps []autoStep
	if hasDrag {
		a, b, err := parseRange(opts.drag)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "auto", "parse --drag", "", err)
		}
		steps = append(steps,
			modeStep(trim.TargetStart, func(s trim.Transition) bool { return s.StartMode == trim.StartImpulse }),
			autoStep{name: "drag", run: func(ctx context.Context, s *session.Session) session.Feedback { return s.Drag(ctx, a, b) }},
		)
	} else {
		steps = append(steps,
			modeStep(trim.TargetStart, func(s trim.Transition) bool { return s.StartMode == trim.StartManual }),
			autoStep{name: "start", run: func(ctx context.Context, s *session.Session) session.Feedback { return s.Click(ctx, opts.start) }},
		)
	}
	if hasEnd {
		steps = append(steps,
			modeStep(trim.TargetEnd, func(s trim.Transition) bool { return s.EndMode == trim.EndManual }),
			autoStep{name: "end", run: func(ctx context.Context, s *session.Session) session.Feedback { return s.Click(ctx, opts.end) }},
		)
	} else {
		steps = append(steps, modeStep(trim.TargetEnd, func(s trim.Transition) bool { return s.EndMode == trim.EndFixed }))
	}
	return steps, nil
}

// modeStep activates target and cycles its mode until want holds. Both
// boundaries have two modes, so at most three presses are needed.
func modeStep(target trim.Target, want func(trim.Transition) bool) autoStep {
	return autoStep{name: "mode " + target.String(), run: func(ctx context.Context, s *session.Session) session.Feedback {
		fb := s.Status()
		for range 3 {
			if fb.State.Target == target && want(fb.State) {
				return fb
			}
			fb = s.Toggle(ctx, target)
		}
		return fb
	}}
}

func runAuto(ctx context.Context, sess *session.Session, steps []autoStep, out io.Writer) (session.Feedback, error) {
	for _, step := range steps {
		fb := step.run(ctx, sess)
		if fb.Err != nil {
			return fb, services.Wrap(services.ErrValidation, "auto", step.name, fb.Message, fb.Err)
		}
		if fb.HasPreview {
			fmt.Fprintf(out, "%s: %s\n", step.name, describeFeedback(fb))
		}
	}
	fb := sess.Save(ctx)
	if fb.Err != nil {
		if !isSelectionError(fb.Err) {
			return fb, fmt.Errorf("save: %w", fb.Err)
		}
		return fb, services.Wrap(services.ErrValidation, "auto", "save", fb.Message, fb.Err)
	}
	return fb, nil
}

func isSelectionError(err error) bool {
	for _, target := range []error{
		trim.ErrOutOfBounds,
		trim.ErrInvalidMode,
		trim.ErrMissingBoundary,
		trim.ErrInsufficientSignalLength,
		trim.ErrDegenerateRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func parseRange(value string) (float64, float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New("want two comma-separated seconds, e.g. 2.5,4")
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range start: %w", err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range end: %w", err)
	}
	return a, b, nil
}
