package pipeline

// Typed stage results passed between pipeline stages. Each stage consumes
// the previous stage's artifacts and produces its own; nothing is threaded
// through loosely-shaped maps.

// PresenterArtifact is the deterministic presenter frame.
type PresenterArtifact struct {
	Path string
}

// SlideArtifact is one rendered content frame.
type SlideArtifact struct {
	Index int
	Path  string
}

// NarrationArtifact is one item's speech audio.
type NarrationArtifact struct {
	Index    int
	Path     string
	Duration float64
	Language string
	// Simulated marks reduced-fidelity audio produced on the provider
	// fallback path.
	Simulated bool
}

// ClipArtifact is one timed clip combining a frame with its narration.
type ClipArtifact struct {
	Index     int
	Path      string
	Duration  float64
	Simulated bool
}

// FinalArtifact is the assembled video before promotion out of staging.
type FinalArtifact struct {
	Path      string
	Duration  float64
	Simulated bool
}

// Health summarizes the readiness of a pipeline stage.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Degraded constructs a Health record for a stage running on its fallback path.
func Degraded(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
