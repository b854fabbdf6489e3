/*
Package raster owns outline rasterization for platform fonts.

An Engine is the rendering context: it holds a 2-D vector rasterizer and a
coverage mask which are re-used for every glyph, much like a glyph slot. A
Face is a font file loaded through an Engine and scaled to a pixel size.
Loading a character into a face produces a GlyphSource, which stays valid
until the next load on the same face.

Engines and faces are not safe for concurrent use. Clients create one engine
per font instance and never share it.

All metrics are 26.6 fixed point values (1/64 pixel), as produced by
golang.org/x/image/math/fixed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'platfont.raster'
func tracer() tracing.Trace {
	return tracing.Select("platfont.raster")
}

// Errors returned by engines and faces. Errors from opening a face are
// additionally wrapped in core application errors, carrying an error code.
var (
	ErrEngineClosed      = errors.New("raster: engine closed")
	ErrFaceClosed        = errors.New("raster: face closed")
	ErrFontNotFound      = errors.New("raster: font file not found")
	ErrUnsupportedFormat = errors.New("raster: unknown file format")
	ErrNoPixelSize       = errors.New("raster: pixel size not set")
	ErrGlyphNotFound     = errors.New("raster: no glyph for character")
)
