// Package logging wraps log/slog with typed attribute helpers, standardized
// field names, and context-derived job/stage fields so every component logs
// the same way.
package logging
