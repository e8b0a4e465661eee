// Package config defines the release-hosting settings used by the publisher
// and provides helpers to load, validate and save them in YAML format.
//
// Validation fills in defaults (API endpoints, manifest filename, timeout)
// so callers only have to supply the repository coordinates.
package config
