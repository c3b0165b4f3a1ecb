package deps

import "impulsetrim/internal/config"

// Requirements lists the external tools the configured features call.
// ffplay is optional: without it the interactive front ends run silently.
func Requirements(cfg *config.Config) []Requirement {
	tools := cfg.Tools
	reqs := []Requirement{
		{Name: "FFmpeg", Command: tools.FFmpeg, Description: "Decodes audio and writes clips"},
		{Name: "FFprobe", Command: tools.FFprobe, Description: "Reads sample rate and frame rate"},
		{Name: "FFplay", Command: tools.FFplay, Description: "Plays selection previews", Optional: true},
	}
	reqs = append(reqs, Requirement{
		Name:        "Tesseract",
		Command:     tools.Tesseract,
		Description: "Reads the on-screen counter",
		Optional:    !cfg.Export.Video,
	})
	return reqs
}

// MissingRequired returns the statuses of unavailable, non-optional tools.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
