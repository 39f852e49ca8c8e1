package model

// SimplifiedDictionary is the compact output document written to
// simple.min.json. Keys of Words are hiragana readings; map iteration order
// is unspecified and so is the key order in the serialized document.
type SimplifiedDictionary struct {
	// Version is copied verbatim from the source dictionary.
	Version string `json:"version"`

	// DictDate is copied verbatim from the source dictionary.
	DictDate string `json:"dictDate"`

	// Words maps a hiragana reading to its index entry.
	Words map[string]*WordIndex `json:"words"`
}

// WordIndex is the bucket stored under one hiragana key. Both slices are
// deduplicated; jmindex emits them sorted so that rebuilding from the same
// source yields byte-identical output.
type WordIndex struct {
	// Katakana lists the katakana forms derived from the readings that
	// share this hiragana key.
	Katakana []string `json:"katakana"`

	// Kanji lists every kanji spelling attached to a headword that
	// carries this reading.
	Kanji []string `json:"kanji"`
}
