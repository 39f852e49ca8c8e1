package model

import "time"

// BuildReport accumulates the result of one pipeline run. Each pipeline
// step fills in the fields it is responsible for; the report is handed from
// step to step and finally rendered by the report package and persisted by
// the database package.
type BuildReport struct {
	// === Request ===

	// Tag is the release tag that was requested. "latest" selects the
	// most recent release.
	Tag string `json:"tag"`

	// StartedAt is the timestamp when the pipeline started.
	StartedAt time.Time `json:"started_at"`

	// === Release resolution ===

	// Asset is the release asset selected for download.
	Asset *ReleaseAsset `json:"asset,omitempty"`

	// === Download and extraction ===

	// ArchivePath is the local path of the downloaded archive. The
	// archive is removed after successful extraction, so the path may no
	// longer exist once the report is rendered.
	ArchivePath string `json:"archive_path,omitempty"`

	// ExtractedEntries lists the archive entries written under the data
	// directory, relative to it, in encounter order.
	ExtractedEntries []string `json:"extracted_entries,omitempty"`

	// SourceFile is the extracted dictionary file chosen as conversion
	// input: the first extracted entry that is a regular file.
	SourceFile string `json:"source_file,omitempty"`

	// === Conversion ===

	// DictionaryVersion is the version string of the converted source.
	DictionaryVersion string `json:"dictionary_version,omitempty"`

	// DictDate is the JMdict creation date of the converted source.
	DictDate string `json:"dict_date,omitempty"`

	// EntryCount is the number of headwords read from the source.
	EntryCount int `json:"entry_count"`

	// BucketCount is the number of hiragana keys in the output index.
	BucketCount int `json:"bucket_count"`

	// OutputPath is the path of the plain JSON artifact.
	OutputPath string `json:"output_path,omitempty"`

	// GzipPath is the path of the compressed artifact, if one was written.
	GzipPath string `json:"gzip_path,omitempty"`

	// OutputBytes is the size of the plain artifact in bytes.
	OutputBytes int64 `json:"output_bytes"`

	// GzipBytes is the size of the compressed artifact in bytes.
	GzipBytes int64 `json:"gzip_bytes"`

	// === Execution ===

	// Elapsed is the total pipeline duration.
	Elapsed time.Duration `json:"elapsed_ns"`

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the failure that stopped the pipeline, if any. It is not
	// serialized; ErrorMessage carries the text instead.
	Error error `json:"-"`

	// ErrorMessage is the human-readable form of Error.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewBuildReport creates a BuildReport for the given tag. An empty tag
// means "latest".
func NewBuildReport(tag string) *BuildReport {
	if tag == "" {
		tag = "latest"
	}
	return &BuildReport{
		Tag:       tag,
		StartedAt: time.Now(),
	}
}

// Succeeded reports whether the pipeline completed without error.
func (r *BuildReport) Succeeded() bool {
	return r.Error == nil && r.ErrorMessage == ""
}

// RecordError stores a terminal pipeline failure on the report.
func (r *BuildReport) RecordError(err error) {
	if err == nil {
		return
	}
	r.Error = err
	r.ErrorMessage = err.Error()
}
