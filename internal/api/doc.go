// Package api implements the job service behind the daemon's HTTP API and
// the wire types shared with the CLI client.
package api
