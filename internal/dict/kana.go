package dict

// Unicode hiragana block and its distance from the katakana block. Every
// hiragana syllable has its katakana counterpart exactly kanaOffset
// codepoints higher.
const (
	hiraganaFirst = 0x3040
	hiraganaLast  = 0x309F
	kanaOffset    = 0x60
)

// HiraganaToKatakana converts every rune in the hiragana block to its
// katakana counterpart; runes outside the block pass through unchanged.
// Katakana input, romaji, punctuation, and prolonged sound marks are
// therefore preserved as-is.
func HiraganaToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= hiraganaFirst && r <= hiraganaLast {
			runes[i] = r + kanaOffset
		}
	}
	return string(runes)
}
