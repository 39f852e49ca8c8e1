// Package config provides configuration structures and utilities for
// jmindex. It defines the release source (owner, repository, asset name
// pattern), the filesystem layout for downloads and build artifacts, and
// report generation preferences.
package config
