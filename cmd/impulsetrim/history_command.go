package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"impulsetrim/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [clip-id]",
		Short: "List saved clips, or show one clip with its counter readings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), cfg.LedgerPath())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				clip, err := store.GetClip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				readings, err := store.Readings(cmd.Context(), clip.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Clip:     %s\nSession:  %s\nCreated:  %s\n", clip.ID, clip.SessionID, clip.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Source:   %s\nRange:    %.3f-%.3f s (%s/%s)\n", firstNonEmpty(clip.SourceAudio, clip.SourceVideo), clip.StartSeconds, clip.EndSeconds, clip.StartMode, clip.EndMode)
				fmt.Fprintf(out, "Audio:    %s\n", clip.AudioPath)
				if clip.VideoPath != "" {
					fmt.Fprintf(out, "Video:    %s\n", clip.VideoPath)
				}
				if len(readings) > 0 {
					fmt.Fprintln(out, renderReadings(readings))
				}
				return nil
			}

			clips, err := store.ListClips(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(clips) == 0 {
				fmt.Fprintln(out, "No clips recorded yet.")
				return nil
			}
			fmt.Fprintln(out, renderClips(clips))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum clips to list (0 for all)")
	return cmd
}

func renderClips(clips []ledger.Clip) string {
	rows := make([][]string, 0, len(clips))
	for _, c := range clips {
		rows = append(rows, []string{
			c.ID,
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(filepath.Dir(firstNonEmpty(c.SourceAudio, c.SourceVideo))),
			strconv.FormatFloat(c.StartSeconds, 'f', 3, 64),
			strconv.FormatFloat(c.Duration(), 'f', 3, 64),
			c.StartMode + "/" + c.EndMode,
			yesNo(c.VideoPath != ""),
		})
	}
	return renderTable(
		[]string{"ID", "Created", "Recording", "Start", "Length", "Modes", "Video"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
