package release

import "errors"

// Acquisition errors. The pipeline halts on any of them; the distinctions
// exist for logs and tests, not for control flow.
var (
	// ErrReleaseNotFound is returned when the metadata endpoint answers
	// 404 for the requested tag.
	ErrReleaseNotFound = errors.New("release not found")

	// ErrAssetNotFound is returned when the release exists but carries
	// no asset matching the configured prefix and suffix.
	ErrAssetNotFound = errors.New("no matching release asset")

	// ErrMalformedResponse is returned when the metadata endpoint
	// answers 2xx with a body that does not parse as release JSON.
	ErrMalformedResponse = errors.New("malformed release metadata")

	// ErrUnexpectedStatus is returned for any terminal HTTP status that
	// is neither success nor a followable redirect.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrTooManyRedirects is returned when a download exceeds the
	// redirect hop bound.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrDestDirNotFound is returned when the download destination
	// directory does not exist. The downloader never creates it.
	ErrDestDirNotFound = errors.New("destination directory does not exist")
)
