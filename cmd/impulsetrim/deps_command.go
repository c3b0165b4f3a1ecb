package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"impulsetrim/internal/deps"
	"impulsetrim/internal/preflight"
	"impulsetrim/internal/services"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
				}
				rows = append(rows, []string{s.Name, s.Command, state, yesNo(s.Optional), firstNonEmpty(s.Detail, s.Description)})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status", "Optional", "Detail"}, rows, nil))

			results := preflight.RunAll(cfg, strings.TrimSpace(outputDir))
			checks := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				state := "ok"
				if !r.Passed {
					state = "fail"
					failed++
				}
				checks = append(checks, []string{r.Name, state, r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checks, nil))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "deps", "check tools", fmt.Sprintf("%d required tool(s) missing", len(missing)), nil)
			}
			if failed > 0 {
				return services.Wrap(services.ErrConfiguration, "deps", "preflight", fmt.Sprintf("%d check(s) failed", failed), nil)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output", "", "Also check this output directory")
	return cmd
}
