package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestMergeFreshManifest checks the plain single-platform case with no previous manifest.
func TestMergeFreshManifest(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	entry := Entry{Signature: "sig", URL: "https://example.com/app.msi.zip"}

	merged := Merge(nil, MergeOptions{
		Version: "1.2.0",
		Notes:   "notes",
		OS:      "windows",
		Arch:    "x86_64",
		Entry:   entry,
	}, now)

	require.Equal(t, "1.2.0", merged.Version)
	require.Equal(t, "notes", merged.Notes)
	require.Equal(t, now, merged.PubDate)
	require.Equal(t, map[string]Entry{"windows-x86_64": entry}, merged.Platforms)
}

// TestMergePreservesOtherPlatforms ensures untouched keys survive a new run unchanged.
func TestMergePreservesOtherPlatforms(t *testing.T) {
	t.Parallel()

	previous := &Manifest{
		Version: "1.1.0",
		Platforms: map[string]Entry{
			"linux-x86_64":  {Signature: "linux-sig", URL: "https://example.com/app.AppImage.tar.gz"},
			"darwin-x86_64": {Signature: "mac-sig", URL: "https://example.com/app.app.tar.gz"},
		},
	}

	entry := Entry{Signature: "win-sig", URL: "https://example.com/app.msi.zip"}
	merged := Merge(previous, MergeOptions{
		Version: "1.2.0",
		OS:      "windows",
		Arch:    "x86_64",
		Entry:   entry,
	}, time.Now())

	require.Len(t, merged.Platforms, 3)
	require.Equal(t, previous.Platforms["linux-x86_64"], merged.Platforms["linux-x86_64"])
	require.Equal(t, previous.Platforms["darwin-x86_64"], merged.Platforms["darwin-x86_64"])
	require.Equal(t, entry, merged.Platforms["windows-x86_64"])

	// Merge never mutates its input.
	require.Len(t, previous.Platforms, 2)
}

// TestMergeIdempotence verifies merging the same entry twice yields identical platforms.
func TestMergeIdempotence(t *testing.T) {
	t.Parallel()

	opts := MergeOptions{
		Version: "2.0.0",
		OS:      "linux",
		Arch:    "x86_64",
		Entry:   Entry{Signature: "sig", URL: "https://example.com/app.AppImage.tar.gz"},
	}

	first := Merge(nil, opts, time.Unix(100, 0))
	second := Merge(first, opts, time.Unix(200, 0))

	require.Equal(t, first.Platforms, second.Platforms)
	require.NotEqual(t, first.PubDate, second.PubDate)
}

// TestMergeUniversalFanOut checks the macOS universal duplication without keeping the literal key.
func TestMergeUniversalFanOut(t *testing.T) {
	t.Parallel()

	entry := Entry{Signature: "sig", URL: "https://example.com/app.app.tar.gz"}
	merged := Merge(nil, MergeOptions{
		Version: "1.0.0",
		OS:      "darwin",
		Arch:    "universal",
		Entry:   entry,
	}, time.Now())

	require.Equal(t, map[string]Entry{
		"darwin-aarch64": entry,
		"darwin-x86_64":  entry,
	}, merged.Platforms)
	require.NotContains(t, merged.Platforms, "darwin-universal")
}

// TestMergeUniversalKeepsLiteralKey checks that KeepUniversal also writes darwin-universal.
func TestMergeUniversalKeepsLiteralKey(t *testing.T) {
	t.Parallel()

	entry := Entry{Signature: "sig", URL: "https://example.com/app.app.tar.gz"}
	merged := Merge(nil, MergeOptions{
		Version:       "1.0.0",
		OS:            "darwin",
		Arch:          "universal",
		Entry:         entry,
		KeepUniversal: true,
	}, time.Now())

	require.Equal(t, map[string]Entry{
		"darwin-aarch64":   entry,
		"darwin-x86_64":    entry,
		"darwin-universal": entry,
	}, merged.Platforms)
}

// TestMergeUniversalDoesNotClobberNative ensures a native entry from an earlier run wins.
func TestMergeUniversalDoesNotClobberNative(t *testing.T) {
	t.Parallel()

	native := Entry{Signature: "native-sig", URL: "https://example.com/app-aarch64.app.tar.gz"}
	previous := &Manifest{
		Platforms: map[string]Entry{"darwin-aarch64": native},
	}

	universal := Entry{Signature: "universal-sig", URL: "https://example.com/app-universal.app.tar.gz"}
	merged := Merge(previous, MergeOptions{
		Version: "1.1.0",
		OS:      "darwin",
		Arch:    "universal",
		Entry:   universal,
	}, time.Now())

	require.Equal(t, native, merged.Platforms["darwin-aarch64"])
	require.Equal(t, universal, merged.Platforms["darwin-x86_64"])
}
