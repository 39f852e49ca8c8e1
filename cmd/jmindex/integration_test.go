package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yomikata/jmindex/internal/database"
	"github.com/yomikata/jmindex/internal/model"
)

// testDictionary is the dictionary served by the fake release host.
const testDictionary = `{"version":"3.6.1","dictDate":"2024-01-01","words":[` +
	`{"kanji":[{"text":"愛"}],"kana":[{"text":"あい"}]},` +
	`{"kanji":[{"text":"犬"}],"kana":[{"text":"いぬ"}]}]}`

// buildReleaseArchive builds a tar.gz holding a single dictionary file.
func buildReleaseArchive(t *testing.T, name, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	hdr := &tar.Header{
		Name:     name,
		Mode:     0600,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// startReleaseServer serves release metadata and the archive itself.
func startReleaseServer(t *testing.T, assetName string, archive []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	handler := func(w http.ResponseWriter, _ *http.Request) {
		meta := fmt.Sprintf(`{"tag_name":"3.6.1","assets":[{"name":%q,"browser_download_url":"%s/assets/%s"}]}`,
			assetName, srv.URL, assetName)
		_, _ = w.Write([]byte(meta))
	}
	mux.HandleFunc("/repos/scriptin/jmdict-simplified/releases/latest", handler)
	mux.HandleFunc("/repos/scriptin/jmdict-simplified/releases/tags/3.6.1", handler)
	mux.HandleFunc("/assets/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestBuildCommandEndToEnd runs the build command against a fake release
// host and inspects the produced artifacts, report, and history record.
func TestBuildCommandEndToEnd(t *testing.T) {
	assetName := "jmdict-eng-3.6.1.json.tgz"
	archive := buildReleaseArchive(t, "jmdict-eng-3.6.1.json", testDictionary)
	srv := startReleaseServer(t, assetName, archive)

	dataDir := t.TempDir()
	releaseDir := t.TempDir()
	dbDir := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "report.json")

	root := NewRootCmd()
	root.SetArgs([]string{
		"build",
		"--api-base", srv.URL,
		"--data-dir", dataDir,
		"--release-dir", releaseDir,
		"--db-dir", dbDir,
		"--json",
		"--output", reportPath,
		"3.6.1",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("writes both index artifacts", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(releaseDir, "simple.min.json")) //nolint:gosec // Test path
		if err != nil {
			t.Fatalf("expected plain artifact: %v", err)
		}

		var dict model.SimplifiedDictionary
		if err := json.Unmarshal(data, &dict); err != nil {
			t.Fatalf("artifact is not valid JSON: %v", err)
		}
		if dict.Version != "3.6.1" {
			t.Errorf("unexpected version %q", dict.Version)
		}
		if len(dict.Words) != 2 {
			t.Fatalf("expected 2 readings, got %d", len(dict.Words))
		}
		if entry := dict.Words["いぬ"]; entry == nil || entry.Katakana[0] != "イヌ" || entry.Kanji[0] != "犬" {
			t.Errorf("unexpected index entry %+v", dict.Words["いぬ"])
		}

		gzPath := filepath.Join(releaseDir, "simple.min.json.gz")
		f, err := os.Open(gzPath) //nolint:gosec // Test path
		if err != nil {
			t.Fatalf("expected compressed artifact: %v", err)
		}
		defer f.Close() //nolint:errcheck // Test cleanup
		gr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("compressed artifact is not valid gzip: %v", err)
		}
		defer gr.Close() //nolint:errcheck // Test cleanup
	})

	t.Run("removes the downloaded archive", func(t *testing.T) {
		if _, err := os.Stat(filepath.Join(dataDir, assetName)); !os.IsNotExist(err) {
			t.Error("expected archive to be removed after extraction")
		}
	})

	t.Run("writes a JSON report with version envelope", func(t *testing.T) {
		data, err := os.ReadFile(reportPath) //nolint:gosec // Test path
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}

		var envelope struct {
			Version string             `json:"version"`
			Report  *model.BuildReport `json:"report"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if envelope.Version == "" {
			t.Error("expected version in report envelope")
		}
		if envelope.Report == nil || envelope.Report.Tag != "3.6.1" {
			t.Fatalf("unexpected report %+v", envelope.Report)
		}
		if envelope.Report.EntryCount != 2 {
			t.Errorf("expected 2 entries, got %d", envelope.Report.EntryCount)
		}
	})

	t.Run("records the build in the history database", func(t *testing.T) {
		db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("expected history database: %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		records, err := db.ListBuilds(context.Background(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 build record, got %d", len(records))
		}
		if !records[0].Success || records[0].Tag != "3.6.1" {
			t.Errorf("unexpected record %+v", records[0])
		}
	})
}

// TestBuildCommandFailure verifies that a failed build still writes a
// report and a failed history record, and exits with an error.
func TestBuildCommandFailure(t *testing.T) {
	// Serve a release whose assets never match the default filters.
	srv := startReleaseServer(t, "jmdict-eng-3.6.1.zip",
		buildReleaseArchive(t, "x.json", testDictionary))

	dbDir := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "report.json")

	root := NewRootCmd()
	root.SetArgs([]string{
		"build",
		"--api-base", srv.URL,
		"--data-dir", t.TempDir(),
		"--release-dir", t.TempDir(),
		"--db-dir", dbDir,
		"--json",
		"--output", reportPath,
		"3.6.1",
	})

	if err := root.Execute(); err == nil {
		t.Fatal("expected build to fail")
	}

	data, err := os.ReadFile(reportPath) //nolint:gosec // Test path
	if err != nil {
		t.Fatalf("expected report file even on failure: %v", err)
	}
	if !strings.Contains(string(data), "error_message") {
		t.Error("expected report to carry the failure message")
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("expected history database: %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	records, err := db.ListBuilds(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Success {
		t.Fatalf("expected one failed record, got %+v", records)
	}
}

// TestHistoryCommand verifies the history listing over a populated
// database.
func TestHistoryCommand(t *testing.T) {
	dbDir := t.TempDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := model.NewBuildReport("3.6.1")
	report.DictionaryVersion = "3.6.1"
	report.EntryCount = 42
	report.BucketCount = 40
	if err := db.SaveBuildReport(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"history", "--db-dir", dbDir})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "3.6.1") {
		t.Errorf("expected tag in listing, got %q", output)
	}
	if !strings.Contains(output, "42") {
		t.Errorf("expected entry count in listing, got %q", output)
	}
}

// TestHistoryCommandWithoutDatabase verifies that listing without any
// recorded builds fails instead of creating an empty database.
func TestHistoryCommandWithoutDatabase(t *testing.T) {
	dbDir := t.TempDir()

	root := NewRootCmd()
	root.SetArgs([]string{"history", "--db-dir", dbDir})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for missing database")
	}
	if _, err := os.Stat(filepath.Join(dbDir, "jmindex.db")); !os.IsNotExist(err) {
		t.Error("expected no database to be created")
	}
}

// TestUpdateCommandEndToEnd runs the update command and checks that the
// source file is left extracted without conversion.
func TestUpdateCommandEndToEnd(t *testing.T) {
	assetName := "jmdict-eng-3.6.1.json.tgz"
	archive := buildReleaseArchive(t, "jmdict-eng-3.6.1.json", testDictionary)
	srv := startReleaseServer(t, assetName, archive)

	dataDir := t.TempDir()
	releaseDir := t.TempDir()

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{
		"update",
		"--api-base", srv.URL,
		"--data-dir", dataDir,
		"--release-dir", releaseDir,
		"3.6.1",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "jmdict-eng-3.6.1.json") {
		t.Errorf("expected source file in output, got %q", buf.String())
	}
	if _, err := os.Stat(filepath.Join(dataDir, "jmdict-eng-3.6.1.json")); err != nil {
		t.Errorf("expected extracted source file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(releaseDir, "simple.min.json")); !os.IsNotExist(err) {
		t.Error("update must not produce the index")
	}
}

// TestConvertCommandEndToEnd runs the convert command over a local
// source file.
func TestConvertCommandEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	releaseDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "src.json"), []byte(testDictionary), 0600); err != nil {
		t.Fatal(err)
	}

	reportPath := filepath.Join(t.TempDir(), "report.json")
	root := NewRootCmd()
	root.SetArgs([]string{
		"convert",
		"--data-dir", dataDir,
		"--release-dir", releaseDir,
		"--no-gzip",
		"--json",
		"--output", reportPath,
		"src.json",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(releaseDir, "simple.min.json")); err != nil {
		t.Errorf("expected index artifact: %v", err)
	}
	if _, err := os.Stat(filepath.Join(releaseDir, "simple.min.json.gz")); !os.IsNotExist(err) {
		t.Error("expected no compressed artifact with --no-gzip")
	}
}
