// Package config loads, validates, and defaults Slidecast's TOML
// configuration. All path fields are expanded (~, relative) during Load so
// downstream packages can treat them as absolute.
package config
