package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary and what it is used for.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional tools degrade a feature instead of blocking startup.
	Optional bool
}

// Status is a Requirement with the outcome of its PATH lookup.
type Status struct {
	Requirement
	Available bool
	// Path is the resolved executable when Available.
	Path   string
	Detail string
}

// CheckBinaries looks up every requirement on PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results[i] = lookup(req)
	}
	return results
}

func lookup(req Requirement) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available, status.Path = true, path
	return status
}
