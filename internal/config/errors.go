package config

import "errors"

// Configuration validation errors. These are returned by Config.Validate()
// as package-level sentinels so callers can use errors.Is for programmatic
// handling while still getting a readable message.
var (
	// ErrEmptyOwner is returned when no repository owner is configured.
	ErrEmptyOwner = errors.New("no repository owner configured")

	// ErrEmptyRepo is returned when no repository name is configured.
	ErrEmptyRepo = errors.New("no repository name configured")

	// ErrEmptyDataDir is returned when the data directory is unset.
	ErrEmptyDataDir = errors.New("no data directory configured")

	// ErrEmptyReleaseDir is returned when the release directory is unset.
	ErrEmptyReleaseDir = errors.New("no release directory configured")

	// ErrEmptyAPIBaseURL is returned when the API base URL is unset.
	ErrEmptyAPIBaseURL = errors.New("no API base URL configured")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
