package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yomikata/jmindex/internal/archive"
	"github.com/yomikata/jmindex/internal/config"
	"github.com/yomikata/jmindex/internal/dict"
	"github.com/yomikata/jmindex/internal/model"
	"github.com/yomikata/jmindex/internal/release"
)

// ErrNoSourceFile is returned when an extracted archive contains no
// regular file to convert, or when a convert-only run names a file that
// does not exist.
var ErrNoSourceFile = errors.New("no dictionary source file")

// ResolveStep selects the release asset to download.
type ResolveStep struct {
	resolver *release.Resolver
	cfg      *config.Config
}

// NewResolveStep creates the resolution step.
func NewResolveStep(resolver *release.Resolver, cfg *config.Config) *ResolveStep {
	return &ResolveStep{resolver: resolver, cfg: cfg}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do resolves the configured release and records the selected asset.
func (s *ResolveStep) Do(ctx context.Context, report *model.BuildReport) error {
	asset, err := s.resolver.Resolve(ctx,
		s.cfg.Owner, s.cfg.Repo,
		s.cfg.AssetPrefix, s.cfg.AssetSuffix,
		report.Tag,
	)
	if err != nil {
		return err
	}

	report.Asset = asset
	return nil
}

// DownloadStep streams the resolved asset into the data directory.
type DownloadStep struct {
	downloader *release.Downloader
	dataDir    string
}

// NewDownloadStep creates the download step.
func NewDownloadStep(downloader *release.Downloader, dataDir string) *DownloadStep {
	return &DownloadStep{downloader: downloader, dataDir: dataDir}
}

// Name returns the step name.
func (s *DownloadStep) Name() string {
	return "download"
}

// Do downloads the asset selected by the resolve step.
func (s *DownloadStep) Do(ctx context.Context, report *model.BuildReport) error {
	if report.Asset == nil {
		return fmt.Errorf("download step requires a resolved asset")
	}

	path, err := s.downloader.Download(ctx, report.Asset.BrowserDownloadURL, s.dataDir, report.Asset.Name)
	if err != nil {
		return err
	}

	report.ArchivePath = path
	return nil
}

// ExtractStep unpacks the downloaded archive, picks the dictionary source
// file, and removes the archive.
type ExtractStep struct {
	extractor *archive.Extractor
	dataDir   string
	logger    *slog.Logger
}

// NewExtractStep creates the extraction step.
func NewExtractStep(extractor *archive.Extractor, dataDir string, logger *slog.Logger) *ExtractStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{extractor: extractor, dataDir: dataDir, logger: logger}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts the archive into the data directory. The first extracted
// entry that is a regular file becomes the conversion source. The archive
// is removed after successful extraction; a failure to remove it is logged
// but does not fail the build.
func (s *ExtractStep) Do(_ context.Context, report *model.BuildReport) error {
	if report.ArchivePath == "" {
		return fmt.Errorf("extract step requires a downloaded archive")
	}

	entries, err := s.extractor.Extract(report.ArchivePath, s.dataDir)
	if err != nil {
		return err
	}
	report.ExtractedEntries = entries

	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(s.dataDir, entry))
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			report.SourceFile = entry
			break
		}
	}
	if report.SourceFile == "" {
		return fmt.Errorf("%w in archive %s", ErrNoSourceFile, report.ArchivePath)
	}

	if err := os.Remove(report.ArchivePath); err != nil {
		s.logger.Warn("failed to remove archive after extraction",
			"archive", report.ArchivePath,
			"error", err,
		)
	}

	return nil
}

// ConvertStep folds the extracted source file into the simplified index.
type ConvertStep struct {
	indexer    *dict.Indexer
	dataDir    string
	outputPath string
	gzipCopy   bool
}

// NewConvertStep creates the conversion step.
func NewConvertStep(indexer *dict.Indexer, dataDir, outputPath string, gzipCopy bool) *ConvertStep {
	return &ConvertStep{
		indexer:    indexer,
		dataDir:    dataDir,
		outputPath: outputPath,
		gzipCopy:   gzipCopy,
	}
}

// Name returns the step name.
func (s *ConvertStep) Name() string {
	return "convert"
}

// Do converts report.SourceFile (relative to the data directory) and
// records the conversion statistics.
func (s *ConvertStep) Do(_ context.Context, report *model.BuildReport) error {
	if report.SourceFile == "" {
		return ErrNoSourceFile
	}

	stats, err := s.indexer.Convert(filepath.Join(s.dataDir, report.SourceFile), s.outputPath, s.gzipCopy)
	if err != nil {
		return err
	}

	report.DictionaryVersion = stats.Version
	report.DictDate = stats.DictDate
	report.EntryCount = stats.Entries
	report.BucketCount = stats.Buckets
	report.OutputPath = s.outputPath
	report.OutputBytes = stats.OutputBytes
	if s.gzipCopy {
		report.GzipPath = s.outputPath + ".gz"
		report.GzipBytes = stats.GzipBytes
	}

	return nil
}
