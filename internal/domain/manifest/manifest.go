package manifest

import (
	"maps"
	"time"
)

const (
	osDarwin      = "darwin"
	archUniversal = "universal"

	// Concrete keys a universal macOS build fans out into.
	keyDarwinAarch64 = "darwin-aarch64"
	keyDarwinX8664   = "darwin-x86_64"

	// defaultMapCapacity is the default initial capacity for the platform mapping.
	defaultMapCapacity = 16
)

// Entry describes the update artifact for one platform: the detached
// signature contents and a stable download URL for the installer.
type Entry struct {
	// Signature is the base64/text contents of the detached signature file.
	Signature string `json:"signature"`
	// URL is the public download URL of the installer.
	URL string `json:"url"`
}

// Manifest is the published update document consumed by the updater client.
// The platform mapping accumulates coverage across successive releases of
// different target matrices.
type Manifest struct {
	// Version is the semantic version of the release being published.
	Version string `json:"version"`
	// Notes holds the release notes shown by the updater client.
	Notes string `json:"notes"`
	// PubDate is when this manifest revision was produced.
	PubDate time.Time `json:"pub_date"`
	// Platforms maps canonical "<os>-<arch>" keys to their update entries.
	Platforms map[string]Entry `json:"platforms"`
}

// MergeOptions carries the inputs of one merge pass. OS and Arch must
// already be normalized.
type MergeOptions struct {
	// Version and Notes always replace the previous manifest's identity fields.
	Version string
	Notes   string
	// OS is the canonical OS family of the current build target.
	OS string
	// Arch is the canonical architecture of the current build target.
	Arch string
	// Entry is the platform entry computed for the current target.
	Entry Entry
	// KeepUniversal additionally keeps the literal darwin-universal key when
	// fanning out a universal macOS build, for clients that understand it.
	KeepUniversal bool
}

// Merge combines a previously published manifest (nil when none exists) with
// the entry computed for the current target. Keys untouched by the current
// run survive unchanged.
//
// A macOS universal build fans out into darwin-aarch64 and darwin-x86_64,
// both receiving the same entry. The fan-out never overwrites an existing
// key: a native build published in an earlier run wins over a universal one.
func Merge(previous *Manifest, opts MergeOptions, now time.Time) *Manifest {
	platforms := make(map[string]Entry, defaultMapCapacity)
	if previous != nil {
		maps.Copy(platforms, previous.Platforms)
	}

	universal := opts.OS == osDarwin && opts.Arch == archUniversal
	if universal {
		for _, key := range []string{keyDarwinAarch64, keyDarwinX8664} {
			if _, ok := platforms[key]; !ok {
				platforms[key] = opts.Entry
			}
		}
	}

	if !universal || opts.KeepUniversal {
		platforms[opts.OS+"-"+opts.Arch] = opts.Entry
	}

	return &Manifest{
		Version:   opts.Version,
		Notes:     opts.Notes,
		PubDate:   now,
		Platforms: platforms,
	}
}
