package platform

import (
	"github.com/npillmayer/platfont/core/font/raster"
)

// CharInfo describes a rasterized character.
//
// XOrigin and YOrigin are the offsets from the pen position on the baseline
// to the left and top edge of the glyph's bitmap, YOrigin growing upwards.
// Bitmap holds Width × Height bytes of 8-bit coverage, row by row from top
// to bottom. Characters without visible ink, like space, have a zero size
// and a nil Bitmap, but may still advance the pen by XIncrement.
//
// A CharInfo owns its bitmap; it never shares memory with the font.
type CharInfo struct {
	XOrigin    int
	YOrigin    int
	Width      uint32
	Height     uint32
	XIncrement int
	Bitmap     []byte
}

// Drawable is true if the character has a bitmap.
func (ci CharInfo) Drawable() bool {
	return ci.Bitmap != nil
}

// charInfoFromSource converts a loaded glyph to a CharInfo, copying its
// bitmap. The grid-fitted outline metrics determine the CharInfo's size.
// They cover the rendered bitmap; should they ever disagree, the bitmap is
// clipped or zero-padded to them.
func charInfoFromSource(g *raster.GlyphSource) CharInfo {
	var info CharInfo
	if g == nil {
		return info
	}
	info.XOrigin = g.BitmapLeft
	info.YOrigin = g.BitmapTop
	info.Width = uint32(g.Metrics.Width / 64)
	info.Height = uint32(g.Metrics.Height / 64)
	info.XIncrement = int(g.Advance / 64)
	if g.Metrics.Width < 0 || g.Metrics.Height < 0 {
		tracer().Debugf("glyph %d has negative extent", g.GlyphIndex)
		info.Width, info.Height = 0, 0
		return info
	}
	if info.Width == 0 && info.Height == 0 {
		return info // blank glyph
	}
	if info.Width == 0 || info.Height == 0 {
		tracer().Debugf("glyph %d is degenerate: %d × %d", g.GlyphIndex, info.Width, info.Height)
		return info
	}
	w, h := int(info.Width), int(info.Height)
	info.Bitmap = make([]byte, w*h)
	src := g.Bitmap
	rows := min(src.Rows, h)
	cols := min(src.Width, w)
	if src.Pitch < cols {
		return info
	}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			info.Bitmap[j*w+i] = src.At(i, j)
		}
	}
	return info
}
