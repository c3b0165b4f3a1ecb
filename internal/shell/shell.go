// Package shell is a line-oriented front end for a trim session, for
// terminals where the full-screen view is not wanted.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"impulsetrim/internal/session"
	"impulsetrim/internal/trim"
)

// Controller is the session surface the shell drives.
type Controller interface {
	Toggle(ctx context.Context, target trim.Target) session.Feedback
	Click(ctx context.Context, t float64) session.Feedback
	Drag(ctx context.Context, a, b float64) session.Feedback
	Save(ctx context.Context) session.Feedback
	Status() session.Feedback
	Labels() (string, string)
	Duration() float64
}

// Shell reads commands and forwards them to a Controller.
type Shell struct {
	ctrl  Controller
	out   io.Writer
	saved bool
}

// New returns a shell writing its responses to out.
func New(ctrl Controller, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, out: out}
}

// Saved reports whether a save succeeded.
func (s *Shell) Saved() bool { return s.saved }

// Completer lists the shell commands for tab completion.
func Completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("start"),
		readline.PcItem("end"),
		readline.PcItem("click"),
		readline.PcItem("drag"),
		readline.PcItem("status"),
		readline.PcItem("save"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run prompts until the user saves, quits or closes input. historyFile may
// be empty.
func (s *Shell) Run(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "trim> ",
		HistoryFile:  historyFile,
		AutoComplete: Completer(),
		Stdout:       s.out,
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	s.printHelp()
	s.Execute(ctx, "status")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		s.printHelp()
	case "status":
		s.report(s.ctrl.Status())
	case "start", "end":
		target, _ := trim.ParseTarget(cmd)
		s.report(s.ctrl.Toggle(ctx, target))
	case "click":
		values, ok := s.seconds(cmd, args, 1)
		if !ok {
			return false
		}
		s.report(s.ctrl.Click(ctx, values[0]))
	case "drag":
		values, ok := s.seconds(cmd, args, 2)
		if !ok {
			return false
		}
		s.report(s.ctrl.Drag(ctx, values[0], values[1]))
	case "save":
		fb := s.ctrl.Save(ctx)
		s.report(fb)
		if fb.Err == nil {
			s.saved = true
			return true
		}
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type help for the list.\n", cmd)
	}
	return false
}

func (s *Shell) seconds(cmd string, args []string, n int) ([]float64, bool) {
	if len(args) != n {
		fmt.Fprintf(s.out, "Usage: %s\n", usage[cmd])
		return nil, false
	}
	values := make([]float64, n)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid time %q: want seconds\n", arg)
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (s *Shell) report(fb session.Feedback) {
	start, end := s.ctrl.Labels()
	active := start
	if fb.State.Target == trim.TargetEnd {
		active = end
	}
	fmt.Fprintf(s.out, "[%s] %s\n", active, fb.Message)
	if fb.HasPreview {
		fmt.Fprintf(s.out, "  preview %.3f-%.3f s\n", fb.Preview.Start, fb.Preview.End)
	}
}

var usage = map[string]string{
	"start":  "start          activate start, again to cycle impulse/manual",
	"end":    "end            activate end, again to cycle fixed/manual",
	"click":  "click <t>      place the active manual boundary at t seconds",
	"drag":   "drag <a> <b>   find the impulse between a and b seconds",
	"status": "status         show the current selection",
	"save":   "save           export the selection and exit",
	"quit":   "quit           exit without saving",
}

func (s *Shell) printHelp() {
	fmt.Fprintf(s.out, "Recording is %.3f s long. Commands:\n", s.ctrl.Duration())
	for _, cmd := range []string{"start", "end", "click", "drag", "status", "save", "quit"} {
		fmt.Fprintf(s.out, "  %s\n", usage[cmd])
	}
}
