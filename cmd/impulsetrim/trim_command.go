package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"impulsetrim/internal/tui"
)

func newTrimCommand(ctx *commandContext) *cobra.Command {
	var video bool

	cmd := &cobra.Command{
		Use:   "trim <dir|file>",
		Short: "Select and export a clip in the full-screen view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
				return errors.New("trim needs an interactive terminal; use `impulsetrim shell` or `impulsetrim auto`")
			}
			ws, err := ctx.openWorkspace(cmd.Context(), args[0], workspaceOptions{FileOnlyLog: true, Video: video})
			if err != nil {
				return err
			}
			defer ws.Close()

			model := tui.New(cmd.Context(), ws.session, ws.signal.Envelope, ws.rec.Dir)
			final, err := tui.Run(cmd.Context(), model)
			if err != nil {
				return fmt.Errorf("run trim view: %w", err)
			}
			out := cmd.OutOrStdout()
			if !final.Saved() {
				fmt.Fprintln(out, "Exited without saving.")
				return nil
			}
			fmt.Fprintln(out, final.Feedback().Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&video, "video", false, "Also export the video clip for counter OCR")
	return cmd
}
