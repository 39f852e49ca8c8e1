package release

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/yomikata/jmindex/internal/config"
)

// Downloader streams release assets to local files. Redirects are followed
// with an explicit hop loop rather than the http.Client's automatic
// handling, so the hop bound is enforced exactly and each hop can be
// logged.
type Downloader struct {
	// client is the HTTP client used for downloads. Its automatic
	// redirect following is disabled; the Download loop handles 3xx
	// responses itself.
	client *http.Client

	// maxRedirects is the number of redirect hops allowed per download.
	maxRedirects int

	// userAgent is sent on every request.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxRedirects overrides the redirect hop bound.
func WithMaxRedirects(n int) DownloaderOption {
	return func(d *Downloader) {
		d.maxRedirects = n
	}
}

// WithDownloaderUserAgent overrides the User-Agent header.
func WithDownloaderUserAgent(userAgent string) DownloaderOption {
	return func(d *Downloader) {
		d.userAgent = userAgent
	}
}

// WithDownloaderLogger sets a custom logger.
func WithDownloaderLogger(logger *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader creates a Downloader with the default hop bound.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				// Redirects are handled by the hop loop in Download.
				return http.ErrUseLastResponse
			},
		},
		maxRedirects: config.DefaultMaxRedirects,
		userAgent:    config.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Download streams the asset at rawURL into destDir and returns the path
// of the written file. destDir must already exist. filename defaults to
// the final path segment of the URL when empty. A partially written file
// is removed on failure.
func (d *Downloader) Download(ctx context.Context, rawURL, destDir, filename string) (string, error) {
	info, err := os.Stat(destDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrDestDirNotFound, destDir)
		}
		return "", fmt.Errorf("failed to check destination directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrDestDirNotFound, destDir)
	}

	current, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid download URL %q: %w", rawURL, err)
	}
	if filename == "" {
		filename = path.Base(current.Path)
	}

	// One initial request plus maxRedirects follow-ups.
	for hop := 0; hop <= d.maxRedirects; hop++ {
		resp, err := d.get(ctx, current.String())
		if err != nil {
			return "", err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode <= 299:
			defer resp.Body.Close() //nolint:errcheck // Read-only body
			return d.writeFile(resp.Body, filepath.Join(destDir, filename))

		case resp.StatusCode >= 300 && resp.StatusCode <= 399:
			location := resp.Header.Get("Location")
			_ = resp.Body.Close() //nolint:errcheck // Redirect body is irrelevant
			if location == "" {
				return "", fmt.Errorf("%w: %d without Location from %s",
					ErrUnexpectedStatus, resp.StatusCode, current)
			}

			next, err := url.Parse(location)
			if err != nil {
				return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
			}
			next = current.ResolveReference(next)

			d.logger.Debug("following redirect",
				"hop", hop+1,
				"status", resp.StatusCode,
				"location", next.String(),
			)
			current = next

		default:
			_ = resp.Body.Close() //nolint:errcheck // Error body is irrelevant
			return "", fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, current)
		}
	}

	return "", fmt.Errorf("%w: more than %d hops for %s", ErrTooManyRedirects, d.maxRedirects, rawURL)
}

// get issues a single GET without following redirects.
func (d *Downloader) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	return resp, nil
}

// writeFile streams body to path, removing the partial file if the stream
// or the final flush fails.
func (d *Downloader) writeFile(body io.Reader, path string) (string, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path is derived from configured destDir
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}

	written, err := io.Copy(f, body)
	if err != nil {
		_ = f.Close()       //nolint:errcheck // Best effort cleanup
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("failed to write download file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("failed to flush download file: %w", err)
	}

	d.logger.Debug("download complete", "path", path, "bytes", written)
	return path, nil
}
