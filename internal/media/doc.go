// Package media wraps the ffmpeg and ffprobe binaries for clip creation,
// concatenation, and artifact inspection. Callers check Available and fall
// back to simulated artifacts when the binaries are missing.
package media
