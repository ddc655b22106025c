package quality

import "math"

// Metrics describes the measurable properties of a final artifact.
type Metrics struct {
	DurationSeconds   float64 `json:"duration_seconds"`
	FileSizeBytes     int64   `json:"file_size_bytes"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	ProcessingSeconds float64 `json:"processing_seconds"`
	QueuedSeconds     float64 `json:"queued_seconds"`
	RenderSeconds     float64 `json:"render_seconds"`
	EncodeSeconds     float64 `json:"encode_seconds"`
}

// Component weights of the composite score.
const (
	weightResolution     = 0.30
	weightBitrate        = 0.25
	weightEfficiency     = 0.20
	weightSizeEfficiency = 0.15
	weightExistence      = 0.10
)

// neutralScore is used whenever a ratio would divide by a non-positive value.
const neutralScore = 0.5

// Score computes the weighted composite quality score for an artifact,
// clamped to [0, 1] and rounded to three decimals. Degenerate metric
// combinations (zero duration, zero processing time) fall back to neutral
// component scores instead of dividing by zero.
func Score(m Metrics) float64 {
	composite := weightResolution*resolutionScore(m.Width, m.Height) +
		weightBitrate*bitrateScore(m.FileSizeBytes, m.DurationSeconds) +
		weightEfficiency*efficiencyScore(m.DurationSeconds, m.ProcessingSeconds) +
		weightSizeEfficiency*sizeEfficiencyScore(m.FileSizeBytes, m.DurationSeconds) +
		weightExistence*existenceScore(m.FileSizeBytes)

	if math.IsNaN(composite) || math.IsInf(composite, 0) {
		composite = 0
	}
	return math.Round(clamp01(composite)*1000) / 1000
}

func resolutionScore(width, height int) float64 {
	pixels := width * height
	switch {
	case pixels >= 1920*1080:
		return 1.0
	case pixels >= 1280*720:
		return 0.8
	case pixels >= 854*480:
		return 0.6
	default:
		return 0.4
	}
}

func bitrateScore(sizeBytes int64, duration float64) float64 {
	if duration <= 0 {
		return neutralScore
	}
	bitsPerSecond := float64(sizeBytes) * 8 / duration
	switch {
	case bitsPerSecond >= 5_000_000:
		return 1.0
	case bitsPerSecond >= 2_000_000:
		return 0.8
	case bitsPerSecond >= 1_000_000:
		return 0.6
	default:
		return 0.4
	}
}

func efficiencyScore(duration, processing float64) float64 {
	if processing <= 0 {
		return neutralScore
	}
	ratio := duration / processing
	switch {
	case ratio >= 0.1:
		return 1.0
	case ratio >= 0.05:
		return 0.8
	case ratio >= 0.02:
		return 0.6
	default:
		return 0.4
	}
}

func sizeEfficiencyScore(sizeBytes int64, duration float64) float64 {
	if duration <= 0 {
		return neutralScore
	}
	mbPerSecond := float64(sizeBytes) / (1024 * 1024) / duration
	switch {
	case mbPerSecond >= 0.5 && mbPerSecond <= 2.0:
		return 1.0
	case mbPerSecond >= 0.3 && mbPerSecond < 0.5,
		mbPerSecond > 2.0 && mbPerSecond <= 3.0:
		return 0.8
	default:
		return 0.6
	}
}

func existenceScore(sizeBytes int64) float64 {
	if sizeBytes > 0 {
		return 1.0
	}
	return 0.0
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
