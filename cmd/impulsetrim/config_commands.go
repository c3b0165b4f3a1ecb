package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"impulsetrim/internal/config"
	"impulsetrim/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

// config init runs before any config exists, so it opts out of loading.
func newConfigInitCommand() *cobra.Command {
	var (
		dest      string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := sampleTarget(dest)
			if err != nil {
				return err
			}
			if err := writeSample(target, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(cmd.OutOrStdout(), "Adjust [ocr] crop to the counter position of your camera before running ocr.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&dest, "path", "p", "", "Where to write the file (default: the user config path)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func sampleTarget(dest string) (string, error) {
	if dest = strings.TrimSpace(dest); dest != "" {
		return config.ExpandPath(dest)
	}
	return config.DefaultConfigPath()
}

func writeSample(target string, overwrite bool) error {
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return services.Wrap(services.ErrValidation, "config", "init", target+" exists (use --overwrite to replace it)", nil)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("check %s: %w", target, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return config.CreateSample(target)
}

// config validate relies on the root pre-run: by the time RunE executes the
// file has been parsed and checked, so it only reports what was loaded.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and print the effective trim settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, exists := ctx.configFile()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", source)
			if !exists {
				fmt.Fprintln(out, "No file at that path; built-in defaults apply")
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, settingRows(cfg), nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func settingRows(cfg *config.Config) [][]string {
	outputDir := cfg.Paths.OutputDir
	if outputDir == "" {
		outputDir = "(derived from input)"
	}
	seconds := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + " s" }
	return [][]string{
		{"state_dir", cfg.Paths.StateDir},
		{"output_dir", outputDir},
		{"start_mode", cfg.Selection.StartMode},
		{"end_mode", cfg.Selection.EndMode},
		{"margin", seconds(cfg.Selection.MarginSeconds)},
		{"preview", strconv.Itoa(cfg.Selection.PreviewMS) + " ms"},
		{"fixed_duration", seconds(cfg.Selection.FixedDurationSeconds)},
		{"channel", cfg.Audio.Channel},
		{"export_video", yesNo(cfg.Export.Video)},
	}
}
