package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yomikata/jmindex/internal/config"
	"github.com/yomikata/jmindex/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past builds recorded in the history database",
		Long: `History lists builds recorded by 'jmindex build', newest first, with
the release tag, dictionary version, index size, and outcome of each.

Examples:
  # List the most recent builds
  jmindex history

  # List the last 5 builds
  jmindex history --limit 5

  # Show the stored report of build 3 as JSON
  jmindex history --show 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of builds to list (0 lists everything)")
	cmd.Flags().Int64P("show", "s", 0,
		"Print the full stored report of the given build ID as JSON")
	cmd.Flags().String("db-dir", "",
		"Directory holding the history database (default: XDG data dir)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Require the database to exist: listing history should never create
	// an empty database as a side effect.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no build history found (run 'jmindex build' first): %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort close

	ctx := context.Background()

	if showID > 0 {
		return showBuildReport(ctx, cmd, db, showID)
	}
	return listBuildHistory(ctx, cmd, db, limit)
}

// showBuildReport prints the stored report of one build as JSON.
func showBuildReport(ctx context.Context, cmd *cobra.Command, db *database.BuildDB, id int64) error {
	buildReport, err := db.GetBuildReport(ctx, id)
	if err != nil {
		return err
	}
	if buildReport == nil {
		return fmt.Errorf("build with ID %d not found (use 'jmindex history' to see available IDs)", id)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildReport)
}

// listBuildHistory prints a table of recorded builds.
func listBuildHistory(ctx context.Context, cmd *cobra.Command, db *database.BuildDB, limit int) error {
	records, err := db.ListBuilds(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No builds recorded yet.")
		fmt.Fprintln(out, "\nUse 'jmindex build' to build the index.")
		return nil
	}

	fmt.Fprintf(out, "Build history (%d builds):\n\n", len(records))
	fmt.Fprintf(out, "  %-4s  %-19s  %-10s  %-10s  %8s  %8s  %s\n",
		"ID", "Date", "Tag", "Version", "Entries", "Readings", "Status")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 78))

	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = "failed: " + rec.Error
		}
		version := rec.DictVersion
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(out, "  %-4d  %-19s  %-10s  %-10s  %8d  %8d  %s\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Tag,
			version,
			rec.EntryCount,
			rec.BucketCount,
			status,
		)
	}

	fmt.Fprintln(out, "\nUse 'jmindex history --show <id>' to see the full report of a build.")

	return nil
}
