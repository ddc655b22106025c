// Package workflow runs the daemon's worker pool: claiming pending jobs,
// enforcing per-job deadlines, recording failures and sweeping stale
// staging directories.
package workflow
