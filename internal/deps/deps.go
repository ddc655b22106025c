package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency Slidecast relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// ForConfig lists the external binaries the pipeline wants. Both are
// optional: the pipeline degrades to placeholder artifacts without them.
func ForConfig(ffmpegBinary, probeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "ffmpeg",
			Command:     ffmpegBinary,
			Description: "encodes slide clips and the final video",
			Optional:    true,
		},
		{
			Name:        "ffprobe",
			Command:     probeBinary,
			Description: "measures final video duration and resolution",
			Optional:    true,
		},
	}
}
