// Package pipeline implements the five-stage generation pipeline that turns
// a validated deck into a final video: presenter frame, per-item narration,
// slide and clip, then assembly, scoring and promotion.
package pipeline
