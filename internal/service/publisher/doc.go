// Package publisher orchestrates one manifest publish run: it selects the
// signature artifact for the current build target, resolves its installer's
// download URL among the uploaded release assets, merges the resulting
// platform entry into the previously published manifest and replaces the
// manifest asset on the release.
//
// A run that finds no usable signature or no matching uploaded asset is not
// an error: it logs a warning and leaves the published manifest untouched,
// since publishing a manifest with a broken entry is worse than publishing
// none.
package publisher
