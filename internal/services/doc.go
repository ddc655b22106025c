// Package services holds cross-cutting service concerns: the sentinel error
// taxonomy used for failure classification, tagged error construction, and
// context annotations shared by pipeline stages.
package services
