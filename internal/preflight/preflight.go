package preflight

import (
	"impulsetrim/internal/config"
	"impulsetrim/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for the state directory and, when
// known, the clip output directory.
func RunAll(cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}
	if outputDir != "" {
		results = append(results,
			CheckDirectoryAccess("Output directory", outputDir),
			CheckFreeSpace("Output free space", outputDir, cfg.Export.MinFreeMiB),
		)
	}
	return results
}

// CheckSystemDeps evaluates the external tools for the given config. The CLI
// deps command and the session constructors share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}
