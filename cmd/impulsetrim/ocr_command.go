package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"impulsetrim/internal/ledger"
	"impulsetrim/internal/logging"
	"impulsetrim/internal/ocr"
	"impulsetrim/internal/services"
)

func newOCRCommand(ctx *commandContext) *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "ocr <video>",
		Short: "Read the on-screen counter from an exported video clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			video, err := filepath.Abs(args[0])
			if err != nil {
				return services.Wrap(services.ErrValidation, "ocr", "resolve path", args[0], err)
			}

			reader, err := ocr.NewReader(cfg, logger)
			if err != nil {
				return err
			}
			readings, err := reader.Scan(cmd.Context(), video)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderReadings(readings))
			if !record {
				return nil
			}

			store, err := ledger.Open(cmd.Context(), cfg.LedgerPath())
			if err != nil {
				return err
			}
			defer store.Close()
			clip, err := store.ClipByVideo(cmd.Context(), video)
			if errors.Is(err, ledger.ErrNotFound) {
				fmt.Fprintln(out, "Video is not a recorded clip; readings not stored.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := store.RecordReadings(cmd.Context(), clip.ID, readings); err != nil {
				return err
			}
			logger.Info("ocr readings stored",
				logging.String(logging.FieldSessionID, clip.SessionID),
				logging.String("clip_id", clip.ID),
				logging.Int("readings", len(readings)),
			)
			fmt.Fprintf(out, "Stored %d readings for clip %s\n", len(readings), clip.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&record, "record", true, "Store readings against the matching ledger clip")
	return cmd
}

func renderReadings(readings []ocr.Reading) string {
	rows := make([][]string, 0, len(readings))
	for _, r := range readings {
		value := "-"
		if r.OK {
			value = strconv.FormatInt(r.Value, 10)
		}
		rows = append(rows, []string{strconv.Itoa(r.Frame), value, r.Raw})
	}
	return renderTable([]string{"Frame", "Value", "Raw"}, rows, []columnAlignment{alignRight, alignRight, alignLeft})
}
