package platform

import (
	"fmt"
	"strings"
)

// Charset is a hint for the character set a font should cover.
//
// Charsets are stored with a font and reported back, but currently do not
// influence font resolution or rasterization.
type Charset uint8

// Charsets, ANSI being the default.
const (
	ANSI Charset = iota
	Symbol
	ShiftJIS
	Hangeul
	GB2312
	ChineseBig5
	OEM
	Johab
	Hebrew
	Arabic
	Greek
	Turkish
	Vietnamese
	Thai
	EastEurope
	Russian
	Mac
	Baltic
)

var charsetNames = [...]string{
	"ANSI", "Symbol", "ShiftJIS", "Hangeul", "GB2312", "ChineseBig5", "OEM",
	"Johab", "Hebrew", "Arabic", "Greek", "Turkish", "Vietnamese", "Thai",
	"EastEurope", "Russian", "Mac", "Baltic",
}

func (c Charset) String() string {
	if int(c) < len(charsetNames) {
		return charsetNames[c]
	}
	return fmt.Sprintf("Charset(%d)", c)
}

// ParseCharset finds a charset by name, ignoring case.
func ParseCharset(name string) (Charset, bool) {
	for i, n := range charsetNames {
		if strings.EqualFold(n, name) {
			return Charset(i), true
		}
	}
	return ANSI, false
}
