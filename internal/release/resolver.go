package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yomikata/jmindex/internal/config"
	"github.com/yomikata/jmindex/internal/model"
)

// Resolver queries the GitHub release metadata endpoint and selects an
// asset. A single Resolver is safe for concurrent use as long as the
// underlying http.Client is.
type Resolver struct {
	// client is the HTTP client used for metadata requests.
	client *http.Client

	// baseURL is the API endpoint, without trailing slash.
	baseURL string

	// userAgent is sent on every request. The GitHub API rejects
	// requests without one.
	userAgent string

	// token, when non-empty, is sent as bearer authentication to lift
	// the unauthenticated rate limit.
	token string

	// logger for structured logging.
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient sets a custom HTTP client for metadata requests.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithBaseURL points the resolver at a different API endpoint. Used by
// tests and by GitHub Enterprise deployments.
func WithBaseURL(baseURL string) ResolverOption {
	return func(r *Resolver) {
		r.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithToken sets a GitHub API token sent as bearer authentication.
func WithToken(token string) ResolverOption {
	return func(r *Resolver) {
		r.token = token
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ResolverOption {
	return func(r *Resolver) {
		r.userAgent = userAgent
	}
}

// WithResolverLogger sets a custom logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver with default endpoint and User-Agent.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:    &http.Client{},
		baseURL:   config.DefaultAPIBaseURL,
		userAgent: config.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Resolve fetches the release metadata for owner/repo at the given tag and
// returns the first asset whose name starts with prefix and ends with
// suffix, in the order the API lists them. An empty prefix or suffix
// matches any name. The tag "latest" (or an empty tag) resolves the most
// recent release.
func (r *Resolver) Resolve(ctx context.Context, owner, repo, prefix, suffix, tag string) (*model.ReleaseAsset, error) {
	endpoint := r.releaseURL(owner, repo, tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	r.logger.Debug("resolving release", "url", endpoint, "tag", tag)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("release metadata request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s/%s tag %q", ErrReleaseNotFound, owner, repo, tag)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read release metadata: %w", err)
	}

	var rel model.Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for _, asset := range rel.Assets {
		if matchAsset(asset.Name, prefix, suffix) {
			r.logger.Debug("selected asset",
				"name", asset.Name,
				"releaseTag", rel.TagName,
			)
			return &asset, nil
		}
	}

	return nil, fmt.Errorf("%w: prefix %q suffix %q in %s/%s tag %q",
		ErrAssetNotFound, prefix, suffix, owner, repo, tag)
}

// releaseURL builds the metadata endpoint for the tag. "latest" and the
// empty tag use the latest-release endpoint; anything else is a
// tag-specific endpoint with the tag percent-encoded.
func (r *Resolver) releaseURL(owner, repo, tag string) string {
	base := fmt.Sprintf("%s/repos/%s/%s/releases", r.baseURL, owner, repo)
	if tag == "" || tag == "latest" {
		return base + "/latest"
	}
	return base + "/tags/" + url.PathEscape(tag)
}

// matchAsset reports whether an asset name satisfies the prefix and suffix
// filters. Empty filters always match.
func matchAsset(name, prefix, suffix string) bool {
	if prefix != "" && !strings.HasPrefix(name, prefix) {
		return false
	}
	if suffix != "" && !strings.HasSuffix(name, suffix) {
		return false
	}
	return true
}
