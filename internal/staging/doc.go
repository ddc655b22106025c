// Package staging owns artifact locations: per-job temp directories, atomic
// promotion of final artifacts into the output library, and stale directory
// cleanup.
package staging
