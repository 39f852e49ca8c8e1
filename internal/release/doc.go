// Package release acquires dictionary release artifacts from GitHub.
//
// The Resolver queries the release metadata endpoint for a tag (or
// "latest") and selects the first asset matching a filename prefix and
// suffix. The Downloader streams the selected asset to a local file,
// following redirects up to a fixed hop bound with an explicit loop; GitHub
// serves release assets through redirects to its storage host, so the
// bound must be at least two.
//
// Both types report failures through sentinel errors in errors.go so the
// pipeline can log what went wrong while treating every failure the same
// way: the build stops.
package release
