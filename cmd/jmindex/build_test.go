package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yomikata/jmindex/internal/config"
)

// TestNewBuildCmd tests the build command creation.
func TestNewBuildCmd(t *testing.T) {
	t.Parallel()

	cmd := NewBuildCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "build [tag]" {
			t.Errorf("expected use 'build [tag]', got %q", cmd.Use)
		}
	})

	t.Run("has source flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"owner", "repo", "asset-prefix", "asset-suffix", "api-base", "config"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has directory flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"data-dir", "release-dir", "db-dir"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has report flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"json", "markdown", "output", "no-gzip", "no-history"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestBuildConfig tests config assembly from flags and the config file.
func TestBuildConfig(t *testing.T) {
	t.Run("uses defaults without flags", func(t *testing.T) {
		cmd := NewBuildCmd()

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Owner != config.DefaultOwner {
			t.Errorf("expected default owner, got %q", cfg.Owner)
		}
		if cfg.Tag != "latest" {
			t.Errorf("expected tag 'latest', got %q", cfg.Tag)
		}
		if !cfg.GzipOutput {
			t.Error("expected gzip output by default")
		}
		if !cfg.SaveToDB {
			t.Error("expected history saving by default")
		}
	})

	t.Run("positional argument sets the tag", func(t *testing.T) {
		cmd := NewBuildCmd()

		cfg, err := buildConfig(cmd, []string{"3.6.1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Tag != "3.6.1" {
			t.Errorf("expected tag 3.6.1, got %q", cfg.Tag)
		}
	})

	t.Run("no-gzip and no-history flags invert the defaults", func(t *testing.T) {
		cmd := NewBuildCmd()
		if err := cmd.Flags().Set("no-gzip", "true"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("no-history", "true"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.GzipOutput {
			t.Error("expected gzip output disabled")
		}
		if cfg.SaveToDB {
			t.Error("expected history saving disabled")
		}
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".jmindex")
		content := "source:\n  owner: someone\n  repo: somedict\ndirs:\n  data: /tmp/jmindex-data\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewBuildCmd()
		if err := cmd.Flags().Set("config", configPath); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Owner != "someone" || cfg.Repo != "somedict" {
			t.Errorf("expected file values, got %q/%q", cfg.Owner, cfg.Repo)
		}
		if cfg.DataDir != "/tmp/jmindex-data" {
			t.Errorf("expected file data dir, got %q", cfg.DataDir)
		}
		// Values the file does not mention keep their defaults.
		if cfg.AssetPrefix != config.DefaultAssetPrefix {
			t.Errorf("expected default asset prefix, got %q", cfg.AssetPrefix)
		}
	})

	t.Run("flags win over the config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".jmindex")
		if err := os.WriteFile(configPath, []byte("source:\n  owner: fromfile\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewBuildCmd()
		if err := cmd.Flags().Set("config", configPath); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("owner", "fromflag"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Owner != "fromflag" {
			t.Errorf("expected flag to win, got %q", cfg.Owner)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		cmd := NewBuildCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("token falls back to the environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "ghp_testtoken")

		cmd := NewBuildCmd()
		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Token != "ghp_testtoken" {
			t.Errorf("expected token from environment, got %q", cfg.Token)
		}
	})
}
