// Package archive unpacks downloaded dictionary archives.
//
// Archives are gzip-compressed tarballs streamed through decompression and
// unpacking without buffering the whole file. Entries whose resolved path
// would escape the destination directory are skipped with a warning;
// everything else about extraction is fail-fast.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the archive or the destination directory
// does not exist.
var ErrNotFound = errors.New("archive or destination does not exist")

// Extractor unpacks tar.gz archives into a destination directory.
type Extractor struct {
	// logger for structured logging.
	logger *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets a custom logger for the extractor.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract unpacks the tar.gz archive at archivePath into destDir and
// returns the entry names written, relative to destDir, in encounter
// order. Directories and regular files are extracted; other entry types
// are skipped. Entries that would resolve outside destDir are skipped with
// a warning. Any stream error aborts extraction; already-written files are
// left in place.
func (e *Extractor) Extract(archivePath, destDir string) ([]string, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("%w: archive %s", ErrNotFound, archivePath)
	}
	destInfo, err := os.Stat(destDir)
	if err != nil || !destInfo.IsDir() {
		return nil, fmt.Errorf("%w: destination %s", ErrNotFound, destDir)
	}

	destAbs, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	f, err := os.Open(archivePath) //nolint:gosec // Path comes from the download step
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to start decompression: %w", err)
	}
	defer gz.Close() //nolint:errcheck // Read-only stream

	var entries []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry: %w", err)
		}

		target, ok := e.securePath(destAbs, hdr.Name)
		if !ok {
			e.logger.Warn("skipping archive entry outside destination",
				"entry", hdr.Name,
			)
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", hdr.Name, err)
			}
			entries = append(entries, hdr.Name)

		case tar.TypeReg:
			if err := e.writeEntry(target, tr); err != nil {
				return nil, fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
			entries = append(entries, hdr.Name)

		default:
			e.logger.Debug("skipping unsupported entry type",
				"entry", hdr.Name,
				"type", hdr.Typeflag,
			)
		}
	}

	e.logger.Debug("extraction complete", "archive", archivePath, "entries", len(entries))
	return entries, nil
}

// securePath resolves an entry name under destAbs and reports whether the
// result stays inside it.
func (e *Extractor) securePath(destAbs, name string) (string, bool) {
	target := filepath.Join(destAbs, name)

	rel, err := filepath.Rel(destAbs, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

// writeEntry streams one regular-file entry to disk, creating parent
// directories as needed.
func (e *Extractor) writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path is traversal-checked
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // Source archives are trusted releases
		_ = f.Close() //nolint:errcheck // Best effort cleanup
		return err
	}
	return f.Close()
}
