package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yomikata/jmindex/internal/config"
	"github.com/yomikata/jmindex/internal/database"
	"github.com/yomikata/jmindex/internal/log"
	"github.com/yomikata/jmindex/internal/model"
	"github.com/yomikata/jmindex/internal/pipeline"
	"github.com/yomikata/jmindex/internal/report"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [tag]",
		Short: "Download a dictionary release and build the index",
		Long: `Build runs the full pipeline against a jmdict-simplified release:

1. Resolve the release by tag (or the latest release) via the GitHub API
2. Download the English dictionary archive
3. Extract the tar.gz archive into the data directory
4. Convert the dictionary into simple.min.json plus a gzip copy

Every build is recorded in the history database. Use 'jmindex history'
to list past builds.

Examples:
  # Build from the latest release
  jmindex build

  # Build from a specific release tag
  jmindex build 3.6.1

  # Write the index somewhere else
  jmindex build --release-dir ./dist

  # Output a JSON build report
  jmindex build --json

  # Use a custom configuration file
  jmindex build -c myconfig.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuildCmd,
	}

	addSourceFlags(cmd)
	addDirFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Bool("no-gzip", false,
		"Skip writing the compressed simple.min.json.gz artifact")
	cmd.Flags().Bool("no-history", false,
		"Do not record this build in the history database")

	return cmd
}

// addSourceFlags registers the flags that select the release to fetch.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", config.DefaultOwner,
		"GitHub account owning the release repository")
	cmd.Flags().String("repo", config.DefaultRepo,
		"Repository whose releases carry the dictionary")
	cmd.Flags().String("asset-prefix", config.DefaultAssetPrefix,
		"Filename prefix that selects the release asset")
	cmd.Flags().String("asset-suffix", config.DefaultAssetSuffix,
		"Filename suffix that selects the release asset")
	cmd.Flags().String("api-base", config.DefaultAPIBaseURL,
		"Base URL of the GitHub REST API")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jmindex in current or home directory)")
}

// addDirFlags registers the directory layout flags.
func addDirFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", "",
		"Directory for the downloaded archive and extracted files (default: XDG data dir)")
	cmd.Flags().String("release-dir", "",
		"Directory for the simple.min.json artifacts (default: XDG data dir)")
	cmd.Flags().String("db-dir", "",
		"Directory for the build-history database (default: XDG data dir)")
}

// addReportFlags registers the report output flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
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

	return runBuild(ctx, cfg, logger, pipeline.NewBuildPipeline(cfg, logger))
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Precedence: flags over file over defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. Without an explicit path a missing file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applySourceFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := applyDirFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("no-gzip"); f != nil {
		noGzip, err := cmd.Flags().GetBool("no-gzip")
		if err != nil {
			return nil, err
		}
		cfg.GzipOutput = !noGzip
	}
	if f := cmd.Flags().Lookup("no-history"); f != nil {
		noHistory, err := cmd.Flags().GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveToDB = !noHistory
	}

	// The token never comes from a flag: a flag value would leak into
	// shell history and process listings.
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	if len(args) > 0 {
		cfg.Tag = args[0]
	}

	return cfg, nil
}

// applySourceFlags copies release-selection flags the user changed onto
// the config.
func applySourceFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"owner", &cfg.Owner},
		{"repo", &cfg.Repo},
		{"asset-prefix", &cfg.AssetPrefix},
		{"asset-suffix", &cfg.AssetSuffix},
		{"api-base", &cfg.APIBaseURL},
	} {
		if flags.Lookup(f.name) == nil || !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = value
	}

	return nil
}

// applyDirFlags copies directory flags onto the config.
func applyDirFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Lookup("data-dir") != nil {
		dataDir, err := flags.GetString("data-dir")
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
	}
	if flags.Lookup("release-dir") != nil {
		releaseDir, err := flags.GetString("release-dir")
		if err != nil {
			return err
		}
		if releaseDir != "" {
			cfg.ReleaseDir = releaseDir
		}
	}
	if flags.Lookup("db-dir") != nil {
		dbDir, err := flags.GetString("db-dir")
		if err != nil {
			return err
		}
		if dbDir != "" {
			cfg.DBDir = dbDir
		}
	}

	return nil
}

// applyReportFlags copies report format flags onto the config.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("json") == nil {
		return nil
	}

	var err error
	cfg.JSONReport, err = flags.GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = flags.GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = flags.GetString("output")
	if err != nil {
		return err
	}

	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// The handler masks tokens and other credentials before they reach the
// output.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return log.NewSecureLogger(os.Stderr, level)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// runBuild executes a pipeline and handles report output and history.
func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger, p *pipeline.Pipeline) error {
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.ReleaseDir, 0750); err != nil {
		return fmt.Errorf("failed to create release directory: %w", err)
	}

	logger.Info("starting build",
		"tag", cfg.Tag,
		"owner", cfg.Owner,
		"repo", cfg.Repo,
		"dataDir", cfg.DataDir,
		"releaseDir", cfg.ReleaseDir,
	)

	buildReport := model.NewBuildReport(cfg.Tag)
	pipelineErr := p.Execute(ctx, buildReport)
	if pipelineErr != nil {
		buildReport.RecordError(pipelineErr)
	}

	if err := outputReport(cfg, buildReport); err != nil {
		logger.Error("report output failed", "error", err)
	}

	if cfg.SaveToDB {
		if err := saveBuildReport(ctx, cfg, buildReport, logger); err != nil {
			logger.Error("failed to save build report", "error", err)
		}
	}

	return pipelineErr
}

// outputReport outputs the build report in the requested format.
func outputReport(cfg *config.Config, buildReport *model.BuildReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort close on output file
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(buildReport)
	return err
}

// saveBuildReport records the build in the history database.
func saveBuildReport(ctx context.Context, cfg *config.Config, buildReport *model.BuildReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort close

	if err := db.SaveBuildReport(ctx, buildReport); err != nil {
		return err
	}

	logger.Info("build recorded", "tag", buildReport.Tag, "dir", cfg.DBDir)
	return nil
}
