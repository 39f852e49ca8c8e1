package model

// SourceDictionary is the jmdict-simplified JSON document extracted from a
// release archive. Only the fields needed to build the phonetic index are
// mapped; sense data, tags, and priority markers are ignored by the parser.
type SourceDictionary struct {
	// Version is the upstream dictionary version string.
	Version string `json:"version"`

	// DictDate is the JMdict creation date carried by the source file.
	DictDate string `json:"dictDate"`

	// Words holds one entry per dictionary headword.
	Words []Word `json:"words"`
}

// Word is a single dictionary headword with its spellings and readings.
type Word struct {
	// Kanji lists the kanji spellings of the headword. May be empty for
	// kana-only words.
	Kanji []KanjiSpelling `json:"kanji"`

	// Kana lists the kana readings of the headword.
	Kana []KanaReading `json:"kana"`
}

// KanjiSpelling is one kanji writing of a headword.
type KanjiSpelling struct {
	Text string `json:"text"`
}

// KanaReading is one kana reading of a headword. Readings are hiragana in
// jmdict-simplified except for katakana-only loanwords, which pass through
// the index unchanged.
type KanaReading struct {
	Text string `json:"text"`
}

// KanjiTexts returns the kanji spellings of the word as plain strings.
func (w Word) KanjiTexts() []string {
	if len(w.Kanji) == 0 {
		return nil
	}
	texts := make([]string, 0, len(w.Kanji))
	for _, k := range w.Kanji {
		texts = append(texts, k.Text)
	}
	return texts
}
