// Package log provides a sanitizing slog.Handler for jmindex.
//
// jmindex can be configured with a GitHub API token for release metadata
// requests. The handler in this package masks token-shaped attribute values
// and credential-named attribute keys so the token never appears in log
// output, regardless of which package logs it.
package log
