// Package dict builds the compact phonetic index from an extracted
// jmdict-simplified source file.
//
// Every kana reading becomes a hiragana key; its katakana form is derived
// by the fixed codepoint offset between the two scripts, and every kanji
// spelling of the contributing headwords joins the key's bucket. Buckets
// deduplicate members across headwords sharing a reading. The finished
// index is serialized as compact JSON and optionally compressed with gzip.
package dict
