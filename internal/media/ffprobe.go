package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeResult represents the parsed output from an ffprobe inspection.
type ProbeResult struct {
	Streams []ProbeStream `json:"streams"`
	Format  ProbeFormat   `json:"format"`
}

// ProbeStream describes a single stream in the media container.
type ProbeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ProbeFormat captures container-level metadata extracted by ffprobe.
type ProbeFormat struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Probe executes ffprobe against the provided path and decodes the JSON response.
func (r *Runner) Probe(ctx context.Context, path string) (ProbeResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ProbeResult{}, errors.New("ffprobe inspect: empty path")
	}

	ctx, cancel := r.commandContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.probeBinary, "-v", "error", "-hide_banner",
		"-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r ProbeResult) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// VideoResolution returns the first video stream's frame size.
func (r ProbeResult) VideoResolution() (width, height int) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream.Width, stream.Height
		}
	}
	return 0, 0
}

func parseFloat(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}
