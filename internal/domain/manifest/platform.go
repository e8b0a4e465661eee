package manifest

// Artifact is one file produced by the build pipeline for a single target,
// typically an installer or its detached signature.
type Artifact struct {
	// Path is the artifact location on the local filesystem.
	Path string
	// Arch is the raw architecture tag supplied by the build matrix.
	Arch string
}

// NormalizePlatformKey maps raw OS and architecture names to the canonical
// "<os>-<arch>" key addressed by the updater client.
func NormalizePlatformKey(osName, arch string) string {
	return NormalizeOS(osName) + "-" + NormalizeArch(arch)
}

// NormalizeOS maps a raw OS family name to its canonical form. Unknown
// values pass through verbatim so new build targets keep working without a
// code change here.
func NormalizeOS(osName string) string {
	if osName == "macos" {
		return "darwin"
	}

	return osName
}

// NormalizeArch maps the build matrix's architecture tag to its canonical
// form. Unknown values pass through verbatim.
func NormalizeArch(arch string) string {
	switch arch {
	case "amd64", "x86_64", "x64":
		return "x86_64"
	case "x86", "i386":
		return "i686"
	case "arm":
		return "armv7"
	case "arm64":
		return "aarch64"
	default:
		return arch
	}
}
