package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"impulsetrim/internal/shell"
)

func newShellCommand(ctx *commandContext) *cobra.Command {
	var video bool

	cmd := &cobra.Command{
		Use:   "shell <dir|file>",
		Short: "Select and export a clip from a command prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context(), args[0], workspaceOptions{FileOnlyLog: true, Video: video})
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recording: %s\nOutput:    %s\n", ws.rec.SignalPath(), ws.session.OutputDir())
			sh := shell.New(ws.session, out)
			history := filepath.Join(ws.cfg.Paths.StateDir, "shell_history")
			return sh.Run(cmd.Context(), history)
		},
	}
	cmd.Flags().BoolVar(&video, "video", false, "Also export the video clip for counter OCR")
	return cmd
}
