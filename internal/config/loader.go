package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".jmindex"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk configuration format. All fields are optional;
// anything left empty keeps its default or flag-provided value.
type File struct {
	// Source overrides where the dictionary release is fetched from.
	Source SourceConfig `yaml:"source"`

	// Dirs overrides the filesystem layout.
	Dirs DirsConfig `yaml:"dirs"`

	// Token is a GitHub API token used for release metadata requests.
	// Prefer the GITHUB_TOKEN environment variable over storing the
	// token in a file.
	Token string `yaml:"token"`
}

// SourceConfig identifies the release repository and the asset to pick.
type SourceConfig struct {
	Owner       string `yaml:"owner"`
	Repo        string `yaml:"repo"`
	AssetPrefix string `yaml:"asset_prefix"`
	AssetSuffix string `yaml:"asset_suffix"`
}

// DirsConfig overrides the directories used by the pipeline.
type DirsConfig struct {
	Data    string `yaml:"data"`
	Release string `yaml:"release"`
}

// LoadConfigFile loads configuration overrides from a YAML file. If the
// file does not exist, it returns ErrConfigNotFound. Callers should handle
// this error based on whether the path was explicitly specified by the
// user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every non-empty value from the file onto the Config.
// Flag-provided values are applied after the file by the CLI layer, so
// flags win over the file and the file wins over defaults.
func (f *File) Apply(cfg *Config) {
	if f.Source.Owner != "" {
		cfg.Owner = f.Source.Owner
	}
	if f.Source.Repo != "" {
		cfg.Repo = f.Source.Repo
	}
	if f.Source.AssetPrefix != "" {
		cfg.AssetPrefix = f.Source.AssetPrefix
	}
	if f.Source.AssetSuffix != "" {
		cfg.AssetSuffix = f.Source.AssetSuffix
	}
	if f.Dirs.Data != "" {
		cfg.DataDir = f.Dirs.Data
	}
	if f.Dirs.Release != "" {
		cfg.ReleaseDir = f.Dirs.Release
	}
	if f.Token != "" {
		cfg.Token = f.Token
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .jmindex in the current directory
//  3. Look for .jmindex in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
