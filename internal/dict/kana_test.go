package dict

import "testing"

// TestHiraganaToKatakana covers the codepoint shift and its boundaries.
func TestHiraganaToKatakana(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain hiragana", "あい", "アイ"},
		{"ascii passes through", "ABC", "ABC"},
		{"mixed scripts", "あいABCかき", "アイABCカキ"},
		{"katakana passes through", "アイ", "アイ"},
		{"kanji passes through", "愛", "愛"},
		{"small kana and voiced marks", "きゃっぷ", "キャップ"},
		{"prolonged sound mark passes through", "らーめん", "ラーメン"},
		{"block end U+309F shifts to U+30FF", "ゟ", "ヿ"},
		{"just below block is unchanged", "〿", "〿"},
		{"just above block is unchanged", "゠", "゠"},
		{"empty string", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HiraganaToKatakana(tc.in); got != tc.want {
				t.Errorf("HiraganaToKatakana(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
