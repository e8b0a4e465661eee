package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSelectSignaturePreferredTable verifies the flag pair to preferred suffix mapping.
func TestSelectSignaturePreferredTable(t *testing.T) {
	t.Parallel()

	artifacts := []Artifact{
		{Path: "app-setup.exe.sig", Arch: "x64"},
		{Path: "app-setup.nsis.zip.sig", Arch: "x64"},
		{Path: "app.msi.sig", Arch: "x64"},
		{Path: "app.msi.zip.sig", Arch: "x64"},
	}

	cases := map[string]struct {
		preferNsis   bool
		useNonZipped bool
		want         string
	}{
		"nsis non-zipped": {preferNsis: true, useNonZipped: true, want: "app-setup.exe.sig"},
		"nsis zipped":     {preferNsis: true, useNonZipped: false, want: "app-setup.nsis.zip.sig"},
		"msi non-zipped":  {preferNsis: false, useNonZipped: true, want: "app.msi.sig"},
		"msi zipped":      {preferNsis: false, useNonZipped: false, want: "app.msi.zip.sig"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			selected := SelectSignature(artifacts, tc.preferNsis, tc.useNonZipped)
			require.NotNil(t, selected)
			require.Equal(t, tc.want, selected.Path)
		})
	}
}

// TestSelectSignaturePrecedence ensures a preferred match beats an earlier fallback match.
func TestSelectSignaturePrecedence(t *testing.T) {
	t.Parallel()

	// The fallback candidate comes first in pipeline order, the preferred one last.
	artifacts := []Artifact{
		{Path: "app.app.tar.gz.sig", Arch: "x64"},
		{Path: "app.msi.zip.sig", Arch: "x64"},
	}

	selected := SelectSignature(artifacts, false, false)
	require.NotNil(t, selected)
	require.Equal(t, "app.msi.zip.sig", selected.Path)
}

// TestSelectSignatureFallback covers the ordered fallback scan when the preferred suffix is absent.
func TestSelectSignatureFallback(t *testing.T) {
	t.Parallel()

	artifacts := []Artifact{
		{Path: "app.AppImage.tar.gz.sig", Arch: "x64"},
	}

	selected := SelectSignature(artifacts, false, false)
	require.NotNil(t, selected)
	require.Equal(t, "app.AppImage.tar.gz.sig", selected.Path)

	// The non-zipped variant set does not match zipped AppImage signatures.
	require.Nil(t, SelectSignature(artifacts, false, true))
}

// TestSelectSignatureNoMatch verifies the recoverable no-match result.
func TestSelectSignatureNoMatch(t *testing.T) {
	t.Parallel()

	artifacts := []Artifact{
		{Path: "app-x64.msi", Arch: "x64"},
		{Path: "checksums.txt", Arch: "x64"},
	}

	require.Nil(t, SelectSignature(artifacts, false, false))
	require.Nil(t, SelectSignature(nil, true, true))
}
