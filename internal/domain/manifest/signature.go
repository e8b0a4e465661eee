package manifest

import "strings"

// signaturePreference is the pair of packaging flags that determines which
// signature filename convention is wanted most.
type signaturePreference struct {
	preferNsis   bool
	useNonZipped bool
}

// preferredSignatureSuffix resolves the flag pair into the single most
// wanted signature suffix. Kept as an explicit table so adding a packaging
// format stays a one-line change.
var preferredSignatureSuffix = map[signaturePreference]string{
	{preferNsis: true, useNonZipped: true}:   ".exe.sig",
	{preferNsis: true, useNonZipped: false}:  ".nsis.zip.sig",
	{preferNsis: false, useNonZipped: true}:  ".msi.sig",
	{preferNsis: false, useNonZipped: false}: ".msi.zip.sig",
}

// fallbackSignatureSuffixes returns the ordered list of known signature
// suffixes scanned when no artifact carries the preferred one.
func fallbackSignatureSuffixes(useNonZipped bool) []string {
	if useNonZipped {
		return []string{".app.tar.gz.sig", ".msi.sig", ".exe.sig", ".AppImage.sig"}
	}

	return []string{".app.tar.gz.sig", ".msi.zip.sig", ".nsis.zip.sig", ".AppImage.tar.gz.sig"}
}

// SelectSignature picks the signature artifact matching the preferred
// filename convention, falling back through the ordered list of known
// alternates. The first match wins; artifact order is whatever the build
// pipeline supplied.
//
// A nil result is not an error: a release may legitimately lack updater
// artifacts for some targets, and the caller must skip manifest publication
// for the run.
func SelectSignature(artifacts []Artifact, preferNsis, useNonZipped bool) *Artifact {
	preferred := preferredSignatureSuffix[signaturePreference{
		preferNsis:   preferNsis,
		useNonZipped: useNonZipped,
	}]

	for i := range artifacts {
		if strings.HasSuffix(artifacts[i].Path, preferred) {
			return &artifacts[i]
		}
	}

	for _, suffix := range fallbackSignatureSuffixes(useNonZipped) {
		for i := range artifacts {
			if strings.HasSuffix(artifacts[i].Path, suffix) {
				return &artifacts[i]
			}
		}
	}

	return nil
}
