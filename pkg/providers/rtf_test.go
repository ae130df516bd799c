package providers

import "testing"

func TestExtractRTFText(t *testing.T) {
	tests := []struct {
		name string
		rtf  string
		want string
	}{
		{
			name: "font table is dropped",
			rtf:  `{\rtf1\ansi{\fonttbl{\f0 Times New Roman;}}\f0 Hello\par World}`,
			want: "Hello\nWorld",
		},
		{
			name: "escaped literals",
			rtf:  `{\rtf1 a\{b\}c\\d}`,
			want: `a{b}c\d`,
		},
		{
			name: "unicode escape skips fallback",
			rtf:  `{\rtf1 caf\u233?}`,
			want: "café",
		},
		{
			name: "hex escape",
			rtf:  `{\rtf1 caf\'e9 cr\'e8me}`,
			want: "café crème",
		},
		{
			name: "surrogate pair",
			rtf:  `{\rtf1 smile \u-10179?\u-8704?}`,
			want: "smile 😀",
		},
		{
			name: "tab and line",
			rtf:  `{\rtf1 a\tab b\line c}`,
			want: "a\tb\nc",
		},
		{
			name: "raw newlines ignored",
			rtf:  "{\\rtf1 one\ntwo}",
			want: "onetwo",
		},
		{
			name: "unbalanced close brace",
			rtf:  `}}{\rtf1 text}`,
			want: "text",
		},
		{
			name: "empty",
			rtf:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRTFText(tt.rtf); got != tt.want {
				t.Errorf("ExtractRTFText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextToRTF(t *testing.T) {
	got := TextToRTF("a{b}\\c\né")
	want := "{\\rtf1\\ansi\\deff0\na\\{b\\}\\\\c\\par\n\\u233?\\par\n}"
	if got != want {
		t.Errorf("TextToRTF() = %q, want %q", got, want)
	}

	if got := TextToRTF(""); got != "{\\rtf1\\ansi\\deff0\n}" {
		t.Errorf("TextToRTF(\"\") = %q", got)
	}
}

func TestRTFRoundTrip(t *testing.T) {
	for _, text := range []string{
		"Hello {world}",
		"first line\nsecond line",
		"naïve café 😀",
		`back\slash`,
	} {
		if got := ExtractRTFText(TextToRTF(text)); got != text {
			t.Errorf("round trip of %q = %q", text, got)
		}
	}
}
