package inputs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"impulsetrim/internal/services"
)

var (
	videoExtensions = []string{".mov", ".mp4"}
	audioExtensions = []string{".wav"}
)

// Recording is one take: a camera file and a separately captured audio file.
// Either may be empty when the caller allows it.
type Recording struct {
	Dir   string
	Video string
	Audio string
}

// SignalPath returns the file the trim signal is decoded from. The dedicated
// audio capture wins; otherwise the video's audio track is used.
func (r Recording) SignalPath() string {
	if r.Audio != "" {
		return r.Audio
	}
	return r.Video
}

// Requirement says which members of a Recording must be present.
type Requirement int

const (
	RequireBoth Requirement = iota
	RequireAudio
	RequireVideo
	RequireAny
)

// Discover scans dir (non-recursively) for the video and audio of a take.
// Extensions match case-insensitively. When several candidates exist the
// lexically last one wins, so the choice is stable across runs.
func Discover(dir string, req Requirement) (Recording, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Recording{}, services.Wrap(services.ErrNotFound, "inputs", "read dir", dir, err)
	}
	rec := Recording{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch classify(entry.Name()) {
		case kindVideo:
			rec.Video = path
		case kindAudio:
			rec.Audio = path
		}
	}
	return rec, check(rec, req)
}

// Resolve accepts either a recording directory or a single media file. A
// single file fills the matching member and leaves the other empty. Paths
// in the result are absolute.
func Resolve(path string, req Requirement) (Recording, error) {
	// The ledger keys clips by path; keep them absolute.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	info, err := os.Stat(path)
	if err != nil {
		return Recording{}, services.Wrap(services.ErrNotFound, "inputs", "stat", path, err)
	}
	if info.IsDir() {
		return Discover(path, req)
	}
	rec := Recording{Dir: filepath.Dir(path)}
	switch classify(path) {
	case kindVideo:
		rec.Video = path
	case kindAudio:
		rec.Audio = path
	default:
		return Recording{}, services.Wrap(services.ErrValidation, "inputs", "classify", fmt.Sprintf("unsupported file type %q", filepath.Ext(path)), nil)
	}
	return rec, check(rec, req)
}

func check(rec Recording, req Requirement) error {
	needVideo := req == RequireBoth || req == RequireVideo
	needAudio := req == RequireBoth || req == RequireAudio
	switch {
	case needVideo && rec.Video == "":
		return services.Wrap(services.ErrNotFound, "inputs", "discover", "no video file found in "+rec.Dir, nil)
	case needAudio && rec.Audio == "":
		return services.Wrap(services.ErrNotFound, "inputs", "discover", "no audio file found in "+rec.Dir, nil)
	case req == RequireAny && rec.Video == "" && rec.Audio == "":
		return services.Wrap(services.ErrNotFound, "inputs", "discover", "no media files found in "+rec.Dir, nil)
	}
	return nil
}

type kind int

const (
	kindOther kind = iota
	kindVideo
	kindAudio
)

func classify(name string) kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case slices.Contains(videoExtensions, ext):
		return kindVideo
	case slices.Contains(audioExtensions, ext):
		return kindAudio
	default:
		return kindOther
	}
}

// DeriveOutputDir maps a raw recording directory to its processed twin by
// replacing the path segment "raw" with "processed":
//
//	data/raw/propeller/p2000_2 -> data/processed/propeller/p2000_2
//
// Without a "raw" segment the clips go to <dir>/processed.
func DeriveOutputDir(dir string) string {
	clean := filepath.Clean(dir)
	parts := strings.Split(clean, string(filepath.Separator))
	for i, part := range parts {
		if part == "raw" {
			parts[i] = "processed"
			joined := strings.Join(parts, string(filepath.Separator))
			if joined == "" {
				return string(filepath.Separator)
			}
			return joined
		}
	}
	return filepath.Join(clean, "processed")
}

// OutputDir returns configured when set, otherwise the directory derived
// from the recording.
func OutputDir(configured string, rec Recording) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return DeriveOutputDir(rec.Dir)
}
