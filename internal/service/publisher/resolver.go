package publisher

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oshokin/update-manifest-publisher/internal/domain/manifest"
	"github.com/oshokin/update-manifest-publisher/internal/repository/release"
)

// untaggedSegment matches the placeholder path segment the hosting platform
// uses for assets of draft releases. Such URLs stop resolving once the
// release is published under a real tag.
var untaggedSegment = regexp.MustCompile(`/download/untagged-[^/]+/`)

// signatureSuffix is the extension separating a detached signature from the
// installer it signs.
const signatureSuffix = ".sig"

// sanitizeAssetName mirrors the hosting platform's asset name mangling:
// spaces become dots.
func sanitizeAssetName(name string) string {
	return strings.ReplaceAll(name, " ", ".")
}

// producedAssetNames returns the set of asset names the build pipeline is
// known to have uploaded this run, after hosting-side sanitization. Every
// signature implies its installer was uploaded alongside it, so the
// sig-stripped name is included too.
func producedAssetNames(paths []string) map[string]struct{} {
	names := make(map[string]struct{}, len(paths)*2)
	for _, path := range paths {
		name := sanitizeAssetName(filepath.Base(path))
		names[name] = struct{}{}

		if strings.HasSuffix(name, signatureSuffix) {
			names[strings.TrimSuffix(name, signatureSuffix)] = struct{}{}
		}
	}

	return names
}

// resolveAssetURL matches the selected signature artifact to the public
// download URL of its installer. An empty result means no uploaded asset
// corresponds to the signature and the run must be skipped.
func resolveAssetURL(
	selected manifest.Artifact,
	assets []release.Asset,
	produced map[string]struct{},
	tagName string,
) string {
	installerName := strings.TrimSuffix(sanitizeAssetName(filepath.Base(selected.Path)), signatureSuffix)

	for _, asset := range assets {
		if _, ok := produced[asset.Name]; !ok {
			continue
		}

		if !strings.HasSuffix(asset.BrowserDownloadURL, installerName) {
			continue
		}

		return repairUntaggedURL(asset.BrowserDownloadURL, tagName)
	}

	return ""
}

// repairUntaggedURL rewrites a draft-release URL to its stable form: the
// final tag when one is known, otherwise the "latest" convenience alias.
func repairUntaggedURL(assetURL, tagName string) string {
	if !untaggedSegment.MatchString(assetURL) {
		return assetURL
	}

	if tagName != "" {
		return untaggedSegment.ReplaceAllString(assetURL, "/download/"+tagName+"/")
	}

	return untaggedSegment.ReplaceAllString(assetURL, "/latest/download/")
}
