// Package queue persists generation jobs in SQLite and owns their lifecycle:
// pending -> processing -> completed|failed. Progress is monotonic while a
// job is processing and reaches 100 only on completion.
package queue
