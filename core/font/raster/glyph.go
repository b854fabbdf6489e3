package raster

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphMetrics are the outline metrics of a loaded glyph, in 26.6 units.
// They are grid-fitted, i.e. whole pixels covering the rendered bitmap.
// HoriBearingY is the distance from the baseline to the top of the outline,
// positive upwards.
type GlyphMetrics struct {
	Width, Height              fixed.Int26_6
	HoriBearingX, HoriBearingY fixed.Int26_6
}

// Bitmap is a rendered 8-bit coverage bitmap. Row j starts at
// Buffer[j*Pitch].
type Bitmap struct {
	Width, Rows int
	Pitch       int
	Buffer      []byte
}

// GlyphSource is the transient result of loading a character into a face.
// It is valid until the next call to LoadChar on the same face, and its
// bitmap buffer is shared with the engine.
type GlyphSource struct {
	GlyphIndex sfnt.GlyphIndex
	Metrics    GlyphMetrics
	Advance    fixed.Int26_6 // horizontal advance
	BitmapLeft int           // pixels from pen position to left edge of bitmap
	BitmapTop  int           // pixels from baseline to top edge of bitmap, upwards
	Bitmap     Bitmap
}

// At returns the coverage of bitmap pixel (x, y), or 0 outside the bitmap
// or its buffer.
func (b Bitmap) At(x, y int) byte {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Rows {
		return 0
	}
	if i := y*b.Pitch + x; i >= 0 && i < len(b.Buffer) {
		return b.Buffer[i]
	}
	return 0
}
