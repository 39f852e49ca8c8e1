package model

// ReleaseAsset is a single downloadable file attached to a GitHub release.
// Only the fields the pipeline consumes are mapped; the API returns many
// more.
type ReleaseAsset struct {
	// Name is the asset filename as listed on the release page.
	Name string `json:"name"`

	// BrowserDownloadURL is the public download URL for the asset.
	// Requests to it are answered with a redirect chain ending at a
	// storage host, so downloads must follow redirects.
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the subset of GitHub release metadata jmindex cares about.
type Release struct {
	// TagName is the git tag the release was published under.
	TagName string `json:"tag_name"`

	// Assets lists the files attached to the release, in the order the
	// API returns them. Asset selection picks the first match from this
	// order.
	Assets []ReleaseAsset `json:"assets"`
}
