package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values. The release source defaults point at the
// upstream jmdict-simplified project, which publishes the dictionary as
// versioned release assets.
const (
	// DefaultOwner is the GitHub account that publishes the dictionary.
	DefaultOwner = "scriptin"

	// DefaultRepo is the repository whose releases carry the dictionary
	// archives.
	DefaultRepo = "jmdict-simplified"

	// DefaultAssetPrefix selects the English single-language build among
	// the release assets. The first asset whose name starts with this
	// prefix and ends with DefaultAssetSuffix is downloaded.
	DefaultAssetPrefix = "jmdict-eng-"

	// DefaultAssetSuffix selects the gzipped tarball variant of the
	// asset. The extractor only understands tar.gz streams.
	DefaultAssetSuffix = ".json.tgz"

	// DefaultAPIBaseURL is the GitHub REST API endpoint. It is
	// configurable so that tests and GitHub Enterprise deployments can
	// point the resolver elsewhere.
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultUserAgent identifies jmindex in HTTP requests. The GitHub
	// API rejects requests without a User-Agent header, so every request
	// carries this value.
	DefaultUserAgent = "jmindex/1.0 (+https://github.com/yomikata/jmindex)"

	// DefaultMaxRedirects bounds the redirect chain followed when
	// downloading a release asset. GitHub serves assets through one or
	// two redirects to its storage host; 5 leaves headroom without
	// allowing redirect loops to run away.
	DefaultMaxRedirects = 5

	// DefaultOutputName is the filename of the plain JSON artifact. The
	// compressed copy appends ".gz" to it.
	DefaultOutputName = "simple.min.json"

	// DefaultHistoryLimit is the number of past builds the history
	// command lists when no limit is given.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "jmindex"
)

// Config holds all configuration options for jmindex. It is populated from
// CLI flags and the optional .jmindex file and passed through the
// application via dependency injection rather than global state.
type Config struct {
	// Owner is the GitHub account owning the release repository.
	Owner string

	// Repo is the repository whose releases are resolved.
	Repo string

	// AssetPrefix filters release assets by filename prefix. Empty
	// means any prefix matches.
	AssetPrefix string

	// AssetSuffix filters release assets by filename suffix. Empty
	// means any suffix matches.
	AssetSuffix string

	// Tag is the release tag to build from. "latest" resolves the most
	// recent release.
	Tag string

	// APIBaseURL is the base URL of the GitHub REST API.
	APIBaseURL string

	// Token is an optional GitHub API token sent as bearer
	// authentication on metadata requests. Unauthenticated requests
	// share a low rate limit per source address.
	Token string

	// UserAgent is the User-Agent header sent with every HTTP request.
	UserAgent string

	// DataDir receives the downloaded archive and its extracted files.
	DataDir string

	// ReleaseDir receives the simple.min.json and simple.min.json.gz
	// artifacts.
	ReleaseDir string

	// GzipOutput controls whether the compressed artifact is written
	// alongside the plain one.
	GzipOutput bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON build-report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown build-report output. Mutually
	// exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the build report. When
	// set, the report is written there instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .jmindex in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// DBDir is the directory holding the SQLite build-history database.
	DBDir string

	// SaveToDB indicates whether the build report is persisted to the
	// history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values. Many defaults are
// non-zero, so the zero value of Config is not usable directly.
func NewConfig() *Config {
	return &Config{
		Owner:       DefaultOwner,
		Repo:        DefaultRepo,
		AssetPrefix: DefaultAssetPrefix,
		AssetSuffix: DefaultAssetSuffix,
		Tag:         "latest",
		APIBaseURL:  DefaultAPIBaseURL,
		UserAgent:   DefaultUserAgent,
		DataDir:     DefaultDataDir(),
		ReleaseDir:  DefaultReleaseDir(),
		GzipOutput:  true,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for jmindex.
// On Linux: ~/.local/share/jmindex
// On macOS: ~/Library/Application Support/jmindex
// On Windows: %LOCALAPPDATA%\jmindex
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultDataDir returns the default directory for downloaded archives and
// their extracted files.
func DefaultDataDir() string {
	return filepath.Join(XDGDataDir(), "data")
}

// DefaultReleaseDir returns the default directory for build artifacts.
func DefaultReleaseDir() string {
	return filepath.Join(XDGDataDir(), "release")
}

// OutputPath returns the path of the plain JSON artifact under the
// configured release directory.
func (c *Config) OutputPath() string {
	return filepath.Join(c.ReleaseDir, DefaultOutputName)
}

// Validate checks if the configuration is valid. It returns a specific
// error describing the first problem found; fixing one error often makes
// later ones irrelevant.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return ErrEmptyOwner
	}
	if c.Repo == "" {
		return ErrEmptyRepo
	}
	if c.DataDir == "" {
		return ErrEmptyDataDir
	}
	if c.ReleaseDir == "" {
		return ErrEmptyReleaseDir
	}
	if c.APIBaseURL == "" {
		return ErrEmptyAPIBaseURL
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
