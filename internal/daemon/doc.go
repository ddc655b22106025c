// Package daemon assembles the long-running slidecastd process: a
// single-instance lock, the worker pool and the HTTP API server.
package daemon
