// Package database provides SQLite-based storage for the build history.
// Every completed build, successful or not, is recorded so that the
// history command can show what was built from which release and when.
package database
