// Package release implements the release-hosting collaborator of the
// publisher: listing, downloading, deleting and uploading assets of a
// GitHub release.
//
// The Client talks to the GitHub REST API over plain HTTP and is hidden
// behind a Repository interface that the publisher service depends on.
// Transient network failures propagate to the caller, no retries are
// attempted here.
package release
