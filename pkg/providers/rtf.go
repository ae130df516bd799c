package providers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

type rtfState int

const (
	rtfText rtfState = iota
	rtfEscape
	rtfControlWord
	rtfHexEscape
)

// rtfExtractor pulls body text out of an RTF stream. It is a heuristic,
// not a full parser: groups nested two or more levels deep (font tables,
// style sheets, info blocks) are dropped entirely.
type rtfExtractor struct {
	state rtfState
	depth int
	word  strings.Builder
	hex   strings.Builder
	out   strings.Builder

	// skipFallback drops the ANSI substitute that follows \uN
	skipFallback  bool
	highSurrogate rune
}

// ExtractRTFText returns the visible text of an RTF document, trimmed
func ExtractRTFText(rtf string) string {
	var x rtfExtractor
	for _, r := range rtf {
		x.step(r)
	}
	if x.state == rtfControlWord {
		x.endControlWord()
	}
	return strings.TrimSpace(x.out.String())
}

func (x *rtfExtractor) step(r rune) {
	switch x.state {
	case rtfText:
		switch r {
		case '\\':
			x.state = rtfEscape
		case '{':
			x.depth++
		case '}':
			if x.depth > 0 {
				x.depth--
			}
		case '\n', '\r':
			// line breaks come from \par, not the source layout
		default:
			x.emitChar(r)
		}

	case rtfEscape:
		switch {
		case r == '\'':
			x.hex.Reset()
			x.state = rtfHexEscape
		case unicode.IsLetter(r):
			x.word.Reset()
			x.word.WriteRune(r)
			x.state = rtfControlWord
		case r == '\\' || r == '{' || r == '}':
			x.emitChar(r)
			x.state = rtfText
		default:
			x.state = rtfText
		}

	case rtfControlWord:
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			x.word.WriteRune(r)
			return
		}
		x.endControlWord()
		x.state = rtfText
		if r != ' ' {
			x.step(r)
		}

	case rtfHexEscape:
		x.hex.WriteRune(r)
		if x.hex.Len() < 2 {
			return
		}
		x.state = rtfText
		if b, err := strconv.ParseUint(x.hex.String(), 16, 8); err == nil {
			x.emitChar(charmap.Windows1252.DecodeByte(byte(b)))
		}
	}
}

func (x *rtfExtractor) endControlWord() {
	word := x.word.String()
	name := strings.TrimRightFunc(word, func(r rune) bool { return r == '-' || unicode.IsDigit(r) })
	param := word[len(name):]

	switch name {
	case "par", "line":
		x.emitRaw('\n')
	case "tab":
		x.emitRaw('\t')
	case "u":
		n, err := strconv.Atoi(param)
		if err != nil {
			return
		}
		if n < 0 {
			n += 0x10000
		}
		x.emitUnicode(rune(n))
		x.skipFallback = true
	}
}

func (x *rtfExtractor) emitUnicode(r rune) {
	switch {
	case utf16.IsSurrogate(r) && r < 0xDC00:
		x.highSurrogate = r
	case utf16.IsSurrogate(r):
		if x.highSurrogate != 0 {
			x.emitRaw(utf16.DecodeRune(x.highSurrogate, r))
		}
		x.highSurrogate = 0
	default:
		x.highSurrogate = 0
		x.emitRaw(r)
	}
}

// emitChar writes document text, honouring the \uN fallback skip
func (x *rtfExtractor) emitChar(r rune) {
	if x.skipFallback {
		x.skipFallback = false
		return
	}
	x.emitRaw(r)
}

func (x *rtfExtractor) emitRaw(r rune) {
	if x.depth <= 1 {
		x.out.WriteRune(r)
	}
}

// TextToRTF wraps plain text in a minimal RTF document, one \par per line.
// Non-ASCII characters are written as \uN? with signed UTF-16 code units.
func TextToRTF(text string) string {
	var b strings.Builder
	b.WriteString("{\\rtf1\\ansi\\deff0\n")

	if text == "" {
		b.WriteString("}")
		return b.String()
	}
	for _, line := range splitLines(text) {
		for _, r := range line {
			switch {
			case r == '\\':
				b.WriteString(`\\`)
			case r == '{':
				b.WriteString(`\{`)
			case r == '}':
				b.WriteString(`\}`)
			case r > 127:
				for _, unit := range utf16.Encode([]rune{r}) {
					fmt.Fprintf(&b, "\\u%d?", int16(unit))
				}
			default:
				b.WriteRune(r)
			}
		}
		b.WriteString("\\par\n")
	}

	b.WriteString("}")
	return b.String()
}
