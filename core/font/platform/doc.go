/*
Package platform provides platform fonts: fonts which are resolved from a
symbolic name on the local system and rasterized character by character on
demand.

A PlatformFont is created once with a name, a pixel size and a charset
hint. Clients, usually a glyph atlas builder, then query the font's line
height and baseline, and per character a CharInfo holding the glyph's
placement, advance and an 8-bit coverage bitmap.

Every query is independent. Rasterized glyphs are not cached; each CharInfo
carries its own freshly allocated bitmap.

A Font is not safe for concurrent use. Separate fonts share nothing and
may be used from different goroutines.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package platform

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'platfont.font'
func tracer() tracing.Trace {
	return tracing.Select("platfont.font")
}

// ErrCreation is wrapped by all errors returned from font creation.
var ErrCreation = errors.New("platform font cannot be created")

// PlatformFont is the interface a glyph consumer uses to query a font.
//
// Queries on a font which could not be created are safe: height and
// baseline are 0 and every CharInfo is empty.
type PlatformFont interface {
	// Create loads a font for a symbolic name, pixel size and charset.
	Create(name string, size uint32, charset Charset) error
	// FontHeight returns the line height in pixels.
	FontHeight() uint32
	// FontBaseLine returns the distance from the top of a line to the baseline,
	// in pixels.
	FontBaseLine() uint32
	// IsValidChar is true for characters this font is meant to render.
	IsValidChar(r rune) bool
	// IsValidCharString is IsValidChar for the first character of s.
	IsValidCharString(s string) bool
	// CharInfo rasterizes a character.
	CharInfo(r rune) CharInfo
	// CharInfoString is CharInfo for the first character of s.
	CharInfoString(s string) CharInfo
	// Close releases all resources held by the font.
	Close() error
}
