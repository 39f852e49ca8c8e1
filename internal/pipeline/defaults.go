package pipeline

import (
	"log/slog"

	"github.com/yomikata/jmindex/internal/archive"
	"github.com/yomikata/jmindex/internal/config"
	"github.com/yomikata/jmindex/internal/dict"
	"github.com/yomikata/jmindex/internal/release"
)

// NewBuildPipeline assembles the full resolve → download → extract →
// convert pipeline from the configuration.
func NewBuildPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(acquisitionSteps(cfg, logger)...)
	p.AddSteps(NewConvertStep(
		dict.NewIndexer(dict.WithIndexerLogger(logger)),
		cfg.DataDir,
		cfg.OutputPath(),
		cfg.GzipOutput,
	))
	return p
}

// NewUpdatePipeline assembles the acquisition-only pipeline: resolve,
// download, and extract without conversion.
func NewUpdatePipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(acquisitionSteps(cfg, logger)...)
	return p
}

// NewConvertPipeline assembles the conversion-only pipeline for an
// already-extracted source file.
func NewConvertPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(NewConvertStep(
		dict.NewIndexer(dict.WithIndexerLogger(logger)),
		cfg.DataDir,
		cfg.OutputPath(),
		cfg.GzipOutput,
	))
	return p
}

// acquisitionSteps builds the resolve, download, and extract steps shared
// by the build and update pipelines.
func acquisitionSteps(cfg *config.Config, logger *slog.Logger) []Step {
	resolver := release.NewResolver(
		release.WithBaseURL(cfg.APIBaseURL),
		release.WithUserAgent(cfg.UserAgent),
		release.WithToken(cfg.Token),
		release.WithResolverLogger(logger),
	)
	downloader := release.NewDownloader(
		release.WithDownloaderUserAgent(cfg.UserAgent),
		release.WithDownloaderLogger(logger),
	)
	extractor := archive.NewExtractor(archive.WithLogger(logger))

	return []Step{
		NewResolveStep(resolver, cfg),
		NewDownloadStep(downloader, cfg.DataDir),
		NewExtractStep(extractor, cfg.DataDir, logger),
	}
}
