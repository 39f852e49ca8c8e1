package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/yomikata/jmindex/internal/model"
)

// dbFileName is the name of the SQLite database file inside the
// configured database directory.
const dbFileName = "jmindex.db"

// BuildDB provides SQLite-based storage for build records. All builds
// share a single database file so that the history command can list them
// across sessions.
type BuildDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures BuildDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a BuildDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*BuildDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	bdb := &BuildDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := bdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return bdb, nil
}

// Close closes the database connection.
func (bdb *BuildDB) Close() error {
	return bdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (bdb *BuildDB) createTables() error {
	schema := `
	-- Build records store one row per pipeline run
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tag TEXT NOT NULL,
		asset_name TEXT,
		source_file TEXT,
		dict_version TEXT,
		dict_date TEXT,
		entry_count INTEGER DEFAULT 0,
		bucket_count INTEGER DEFAULT 0,
		output_bytes INTEGER DEFAULT 0,
		gzip_bytes INTEGER DEFAULT 0,
		elapsed_ms INTEGER DEFAULT 0,
		success INTEGER NOT NULL,
		error TEXT,
		report_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_builds_tag ON builds(tag);
	CREATE INDEX IF NOT EXISTS idx_builds_created ON builds(created_at);
	`

	_, err := bdb.db.ExecContext(context.Background(), schema)
	return err
}

// BuildRecord summarizes a stored build for history listings.
type BuildRecord struct {
	// ID is the unique identifier of the build in the database.
	ID int64

	// Tag is the release tag the build requested.
	Tag string

	// AssetName is the resolved release asset, empty if resolution failed.
	AssetName string

	// SourceFile is the extracted dictionary file the build converted.
	SourceFile string

	// DictVersion is the jmdict-simplified version of the source.
	DictVersion string

	// DictDate is the JMdict creation date of the source.
	DictDate string

	// EntryCount is the number of dictionary entries indexed.
	EntryCount int

	// BucketCount is the number of hiragana index keys produced.
	BucketCount int

	// OutputBytes is the size of the plain artifact.
	OutputBytes int64

	// GzipBytes is the size of the compressed artifact.
	GzipBytes int64

	// Elapsed is the total pipeline duration.
	Elapsed time.Duration

	// Success reports whether the build completed all steps.
	Success bool

	// Error is the failure message for unsuccessful builds.
	Error string

	// CreatedAt is when the build was recorded.
	CreatedAt time.Time
}

// SaveBuildReport persists a build report, successful or failed.
func (bdb *BuildDB) SaveBuildReport(ctx context.Context, report *model.BuildReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	var assetName string
	if report.Asset != nil {
		assetName = report.Asset.Name
	}

	success := 0
	if report.Succeeded() {
		success = 1
	}

	query := `
	INSERT INTO builds (tag, asset_name, source_file, dict_version, dict_date,
		entry_count, bucket_count, output_bytes, gzip_bytes, elapsed_ms,
		success, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = bdb.db.ExecContext(ctx, query,
		report.Tag,
		assetName,
		report.SourceFile,
		report.DictionaryVersion,
		report.DictDate,
		report.EntryCount,
		report.BucketCount,
		report.OutputBytes,
		report.GzipBytes,
		report.Elapsed.Milliseconds(),
		success,
		report.ErrorMessage,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save build report: %w", err)
	}

	return nil
}

// ListBuilds returns the most recent builds, newest first. A limit of
// zero or less lists everything.
func (bdb *BuildDB) ListBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	query := `
	SELECT id, tag, asset_name, source_file, dict_version, dict_date,
		entry_count, bucket_count, output_bytes, gzip_bytes, elapsed_ms,
		success, error, created_at
	FROM builds
	ORDER BY created_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := bdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var results []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var elapsedMS int64
		var success int
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.Tag,
			&rec.AssetName,
			&rec.SourceFile,
			&rec.DictVersion,
			&rec.DictDate,
			&rec.EntryCount,
			&rec.BucketCount,
			&rec.OutputBytes,
			&rec.GzipBytes,
			&elapsedMS,
			&success,
			&rec.Error,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build record: %w", err)
		}

		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		rec.Success = success != 0
		rec.CreatedAt = parseTimestamp(createdAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// GetBuildReport retrieves the full build report stored for a build ID.
// It returns nil without error when the ID is unknown.
func (bdb *BuildDB) GetBuildReport(ctx context.Context, id int64) (*model.BuildReport, error) {
	query := `
	SELECT report_json FROM builds
	WHERE id = ?
	`

	var reportJSON string
	err := bdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build report: %w", err)
	}

	var report model.BuildReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse build report: %w", err)
	}

	return &report, nil
}

// LatestSuccessfulBuild returns the newest successful build record, or
// nil when no build has succeeded yet.
func (bdb *BuildDB) LatestSuccessfulBuild(ctx context.Context) (*BuildRecord, error) {
	records, err := bdb.ListBuilds(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Success {
			return &records[i], nil
		}
	}
	return nil, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
