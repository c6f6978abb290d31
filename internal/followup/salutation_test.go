package followup

import "testing"

func TestExtractSalutationName(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"multi-word name", "Hello John Smith,\n\nThanks", "John Smith"},
		{"single name", "Hi Mary,\nJust checking in.", "Mary"},
		{"lowercase greeting", "hi bob,\n", "bob"},
		{"comma separator", "Hi, Alice,", "Alice"},
		{"period terminator", "Hello Frank.", "Frank"},
		{"end of input terminator", "Hi Dana", "Dana"},
		{"apostrophe", "Hello O'Brien,", "O'Brien"},
		{"hyphenated", "Hi Mary-Jane Smith,\nbody", "Mary-Jane Smith"},
		{"greeting on a later line", "Quick note below.\nHi Carol,\nsee attached", "Carol"},
		{"indented greeting", "   Hello Pat,", "Pat"},
		{"no greeting", "Dear hiring manager,\nI am writing to apply.", ""},
		{"greeting with no name", "Hi,\n\nThanks for your time.", ""},
		{"word starting with hi", "Highlights of the quarter:", ""},
		{"empty body", "", ""},
	}
	for _, tc := range tests {
		if got := ExtractSalutationName(tc.body); got != tc.want {
			t.Errorf("%s: ExtractSalutationName(%q) = %q; want %q", tc.name, tc.body, got, tc.want)
		}
	}
}
