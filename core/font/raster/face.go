package raster

import (
	"fmt"

	"github.com/npillmayer/platfont/core/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face is a font loaded by an engine. Create it with Engine.OpenFace.
type Face struct {
	engine  *Engine
	font    *font.ScalableFont
	buf     sfnt.Buffer
	ppem    fixed.Int26_6
	metrics SizeMetrics
	slot    GlyphSource
	closed  bool
}

// SizeMetrics are the scaled metrics of a face at its current pixel size.
// As with FreeType, Descender is negative for fonts reaching below the
// baseline.
type SizeMetrics struct {
	PixelSize uint32
	Ascender  fixed.Int26_6
	Descender fixed.Int26_6
}

// Font returns the parsed font of this face.
func (f *Face) Font() *font.ScalableFont {
	return f.font
}

// SetPixelSize scales the face to a pixel size. Horizontal scaling is
// derived from the vertical one.
func (f *Face) SetPixelSize(px uint32) error {
	if f.closed {
		return ErrFaceClosed
	}
	if px == 0 {
		return fmt.Errorf("raster: invalid pixel size 0")
	}
	f.ppem = fixed.I(int(px))
	m, err := f.font.SFNT.Metrics(&f.buf, f.ppem, xfont.HintingNone)
	if err != nil {
		f.ppem = 0
		return err
	}
	f.metrics = SizeMetrics{
		PixelSize: px,
		Ascender:  m.Ascent,
		Descender: -m.Descent,
	}
	tracer().Debugf("face %q scaled to %d px: ascender=%v descender=%v",
		f.font.Fontname, px, f.metrics.Ascender, f.metrics.Descender)
	return nil
}

// SizeMetrics returns the metrics at the current pixel size. Before a call
// to SetPixelSize all metrics are zero.
func (f *Face) SizeMetrics() SizeMetrics {
	return f.metrics
}

// LoadChar loads and renders the glyph for a character.
//
// The returned glyph source is owned by the face and will be overwritten by
// the next call to LoadChar. Characters not mapped by the font's cmap
// result in ErrGlyphNotFound, i.e. the '.notdef' glyph is never rendered.
func (f *Face) LoadChar(r rune) (*GlyphSource, error) {
	switch {
	case f.closed:
		return nil, ErrFaceClosed
	case f.engine.closed:
		return nil, ErrEngineClosed
	case f.ppem == 0:
		return nil, ErrNoPixelSize
	}
	f.slot = GlyphSource{}
	x, err := f.font.SFNT.GlyphIndex(&f.buf, r)
	if err != nil {
		return nil, err
	}
	if x == 0 {
		return nil, fmt.Errorf("%w: %#U", ErrGlyphNotFound, r)
	}
	// GlyphAdvance must be called before LoadGlyph, as re-using the buffer
	// invalidates the segments
	advance, err := f.font.SFNT.GlyphAdvance(&f.buf, x, f.ppem, xfont.HintingNone)
	if err != nil {
		return nil, err
	}
	segments, err := f.font.SFNT.LoadGlyph(&f.buf, x, f.ppem, nil)
	if err != nil {
		return nil, err
	}
	f.slot.GlyphIndex = x
	f.slot.Advance = advance
	if len(segments) == 0 {
		tracer().Debugf("glyph for %#U has no outline", r)
		return &f.slot, nil
	}
	// Y axis increases down. Metrics are grid-fitted to the pixel extent of
	// the rendered bitmap.
	bounds := segments.Bounds()
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	f.slot.Metrics = GlyphMetrics{
		Width:        fixed.I(w),
		Height:       fixed.I(h),
		HoriBearingX: fixed.I(minX),
		HoriBearingY: fixed.I(-minY),
	}
	f.slot.BitmapLeft = f.slot.Metrics.HoriBearingX.Floor()
	f.slot.BitmapTop = f.slot.Metrics.HoriBearingY.Floor()
	if w <= 0 || h <= 0 {
		return &f.slot, nil
	}
	pix := f.engine.render(segments, w, h, -float32(minX), -float32(minY))
	f.slot.Bitmap = Bitmap{
		Width:  w,
		Rows:   h,
		Pitch:  w,
		Buffer: pix,
	}
	return &f.slot, nil
}

// Close releases the face. Closing a face twice returns ErrFaceClosed.
func (f *Face) Close() error {
	if f.closed {
		return ErrFaceClosed
	}
	f.closed = true
	f.slot = GlyphSource{}
	f.engine.faces--
	tracer().Debugf("face %q closed", f.font.Fontname)
	return nil
}
