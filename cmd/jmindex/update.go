package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yomikata/jmindex/internal/model"
	"github.com/yomikata/jmindex/internal/pipeline"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [tag]",
		Short: "Download and extract a dictionary release without converting",
		Long: `Update fetches a jmdict-simplified release and extracts it into the
data directory, leaving the extracted JSON file in place for a later
'jmindex convert' run.

Examples:
  # Fetch the latest release
  jmindex update

  # Fetch a specific release
  jmindex update 3.6.1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdateCmd,
	}

	addSourceFlags(cmd)
	addDirFlags(cmd)

	return cmd
}

// runUpdateCmd executes the update command.
func runUpdateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	buildReport := model.NewBuildReport(cfg.Tag)
	if err := pipeline.NewUpdatePipeline(cfg, logger).Execute(ctx, buildReport); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %s\n", buildReport.Asset.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Source file: %s\n", buildReport.SourceFile)
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'jmindex convert %s' to build the index.\n", buildReport.SourceFile)

	return nil
}
