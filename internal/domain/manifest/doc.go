// Package manifest contains the update manifest model and the pure decision
// logic of a publish run: canonical platform key normalization, signature
// artifact selection, and merging a new platform entry into a previously
// published manifest.
//
// Everything in this package is side-effect free; fetching, persisting and
// uploading the manifest live in the service and repository layers.
package manifest
