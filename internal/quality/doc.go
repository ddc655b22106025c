// Package quality computes a deterministic composite quality score for final
// video artifacts from their measured metrics.
package quality
