package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yomikata/jmindex/internal/model"
)

// sampleReport returns a completed build report with all fields set.
func sampleReport(tag string) *model.BuildReport {
	report := model.NewBuildReport(tag)
	report.Asset = &model.ReleaseAsset{
		Name:               "jmdict-eng-3.6.1.json.tgz",
		BrowserDownloadURL: "https://example.com/jmdict-eng-3.6.1.json.tgz",
	}
	report.SourceFile = "jmdict-eng-3.6.1.json"
	report.DictionaryVersion = "3.6.1"
	report.DictDate = "2024-01-01"
	report.EntryCount = 1234
	report.BucketCount = 1100
	report.OutputBytes = 4096
	report.GzipBytes = 1024
	report.Elapsed = 1500 * time.Millisecond
	report.PerformedSteps = []string{"resolve", "download", "extract", "convert"}
	return report
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when CreateIfNotExists is set", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		records, err := db.ListBuilds(context.Background(), 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected empty history, got %d records", len(records))
		}
	})

	t.Run("fails when database is absent and creation is disabled", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := db.SaveBuildReport(context.Background(), sampleReport("3.6.1")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		db2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db2.Close() //nolint:errcheck // Test cleanup

		records, err := db2.ListBuilds(context.Background(), 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
	})
}

func TestBuildDBSaveBuildReport(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a successful build", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		ctx := context.Background()
		if err := db.SaveBuildReport(ctx, sampleReport("3.6.1")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := db.ListBuilds(ctx, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}

		rec := records[0]
		if rec.Tag != "3.6.1" {
			t.Errorf("expected tag 3.6.1, got %q", rec.Tag)
		}
		if rec.AssetName != "jmdict-eng-3.6.1.json.tgz" {
			t.Errorf("unexpected asset name %q", rec.AssetName)
		}
		if rec.DictVersion != "3.6.1" || rec.DictDate != "2024-01-01" {
			t.Errorf("unexpected dictionary metadata %q/%q", rec.DictVersion, rec.DictDate)
		}
		if rec.EntryCount != 1234 || rec.BucketCount != 1100 {
			t.Errorf("unexpected counts %d/%d", rec.EntryCount, rec.BucketCount)
		}
		if rec.Elapsed != 1500*time.Millisecond {
			t.Errorf("unexpected elapsed %v", rec.Elapsed)
		}
		if !rec.Success {
			t.Error("expected record to be marked successful")
		}
		if rec.Error != "" {
			t.Errorf("expected empty error, got %q", rec.Error)
		}
	})

	t.Run("records a failed build", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		report := model.NewBuildReport("latest")
		report.RecordError(errors.New("release not found"))

		ctx := context.Background()
		if err := db.SaveBuildReport(ctx, report); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := db.ListBuilds(ctx, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0].Success {
			t.Error("expected record to be marked failed")
		}
		if records[0].Error != "release not found" {
			t.Errorf("unexpected error message %q", records[0].Error)
		}
	})
}

func TestBuildDBListBuilds(t *testing.T) {
	t.Parallel()

	t.Run("applies the limit, newest first", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		ctx := context.Background()
		for _, tag := range []string{"3.6.0", "3.6.1", "3.6.2"} {
			if err := db.SaveBuildReport(ctx, sampleReport(tag)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		records, err := db.ListBuilds(ctx, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Tag != "3.6.2" || records[1].Tag != "3.6.1" {
			t.Errorf("unexpected order: %q, %q", records[0].Tag, records[1].Tag)
		}
	})
}

func TestBuildDBGetBuildReport(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored report", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		ctx := context.Background()
		if err := db.SaveBuildReport(ctx, sampleReport("3.6.1")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := db.ListBuilds(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		report, err := db.GetBuildReport(ctx, records[0].ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report == nil {
			t.Fatal("expected a report")
		}
		if report.Tag != "3.6.1" || report.EntryCount != 1234 {
			t.Errorf("unexpected report %+v", report)
		}
		if len(report.PerformedSteps) != 4 {
			t.Errorf("unexpected performed steps %v", report.PerformedSteps)
		}
	})

	t.Run("returns nil for an unknown build ID", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		report, err := db.GetBuildReport(context.Background(), 42)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report != nil {
			t.Errorf("expected nil report, got %+v", report)
		}
	})
}

func TestBuildDBLatestSuccessfulBuild(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	rec, err := db.LatestSuccessfulBuild(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record on empty history, got %+v", rec)
	}

	if err := db.SaveBuildReport(ctx, sampleReport("3.6.1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	failed := model.NewBuildReport("3.6.2")
	failed.RecordError(errors.New("download failed"))
	if err := db.SaveBuildReport(ctx, failed); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rec, err = db.LatestSuccessfulBuild(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Tag != "3.6.1" {
		t.Errorf("expected tag 3.6.1, got %q", rec.Tag)
	}
}
