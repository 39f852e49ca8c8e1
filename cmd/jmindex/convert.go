package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yomikata/jmindex/internal/model"
	"github.com/yomikata/jmindex/internal/pipeline"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <source-file>",
		Short: "Convert an extracted dictionary file into the index",
		Long: `Convert reads an already-extracted jmdict-simplified JSON file from
the data directory and writes simple.min.json plus a gzip copy into the
release directory. The source file argument is relative to the data
directory.

Examples:
  # Convert a file fetched earlier with 'jmindex update'
  jmindex convert jmdict-eng-3.6.1.json

  # Write the index somewhere else, without the gzip copy
  jmindex convert --release-dir ./dist --no-gzip jmdict-eng-3.6.1.json`,
		Args: cobra.ExactArgs(1),
		RunE: runConvertCmd,
	}

	addDirFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Bool("no-gzip", false,
		"Skip writing the compressed simple.min.json.gz artifact")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jmindex in current or home directory)")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := os.MkdirAll(cfg.ReleaseDir, 0750); err != nil {
		return fmt.Errorf("failed to create release directory: %w", err)
	}

	buildReport := model.NewBuildReport(cfg.Tag)
	buildReport.SourceFile = args[0]

	pipelineErr := pipeline.NewConvertPipeline(cfg, logger).Execute(ctx, buildReport)
	if pipelineErr != nil {
		buildReport.RecordError(pipelineErr)
	}

	if err := outputReport(cfg, buildReport); err != nil {
		logger.Error("report output failed", "error", err)
	}

	return pipelineErr
}
