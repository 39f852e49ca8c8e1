// Package model defines the core data structures used throughout jmindex.
//
// This package contains the following main types:
//   - Release/ReleaseAsset: GitHub release metadata as returned by the API
//   - SourceDictionary: The jmdict-simplified JSON document being indexed
//   - SimplifiedDictionary: The compact hiragana-keyed output document
//   - BuildReport: The result of one pipeline run
//
// The models live in their own package because multiple packages (release,
// dict, pipeline, report, database) need them; centralizing the types
// prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
