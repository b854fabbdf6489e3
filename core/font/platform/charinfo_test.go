package platform

import (
	"testing"

	"github.com/npillmayer/platfont/core/font/raster"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func glyph(w, h fixed.Int26_6, bmp raster.Bitmap) *raster.GlyphSource {
	return &raster.GlyphSource{
		GlyphIndex: 42,
		Metrics:    raster.GlyphMetrics{Width: w, Height: h},
		Advance:    fixed.I(7),
		BitmapLeft: 1,
		BitmapTop:  9,
		Bitmap:     bmp,
	}
}

// Glyph sources from a face always agree with their metrics; the copy
// still must not overrun if they do not.
func TestCopyIsClippedToMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font")
	defer teardown()
	//
	src := raster.Bitmap{Width: 4, Rows: 3, Pitch: 5, Buffer: []byte{
		11, 12, 13, 14, 99,
		21, 22, 23, 24, 99,
		31, 32, 33, 34, 99,
	}}
	ci := charInfoFromSource(glyph(fixed.I(3), fixed.I(2), src))
	require.True(t, ci.Drawable())
	assert.Equal(t, uint32(3), ci.Width)
	assert.Equal(t, uint32(2), ci.Height)
	assert.Equal(t, []byte{11, 12, 13, 21, 22, 23}, ci.Bitmap)
	assert.Equal(t, 1, ci.XOrigin)
	assert.Equal(t, 9, ci.YOrigin)
	assert.Equal(t, 7, ci.XIncrement)
	// the source is not aliased
	ci.Bitmap[0] = 0
	assert.Equal(t, byte(11), src.Buffer[0])
}

func TestCopyIsPaddedToMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font")
	defer teardown()
	//
	src := raster.Bitmap{Width: 2, Rows: 2, Pitch: 2, Buffer: []byte{1, 2, 3, 4}}
	ci := charInfoFromSource(glyph(fixed.I(4), fixed.I(3), src))
	assert.Equal(t, []byte{
		1, 2, 0, 0,
		3, 4, 0, 0,
		0, 0, 0, 0,
	}, ci.Bitmap)
}

func TestCopyOfShortBuffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font")
	defer teardown()
	//
	src := raster.Bitmap{Width: 2, Rows: 3, Pitch: 2, Buffer: []byte{1, 2, 3, 4}}
	ci := charInfoFromSource(glyph(fixed.I(2), fixed.I(3), src))
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0}, ci.Bitmap)
}

func TestDegenerateGeometry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font")
	defer teardown()
	//
	src := raster.Bitmap{Width: 1, Rows: 5, Pitch: 1, Buffer: []byte{1, 2, 3, 4, 5}}
	ci := charInfoFromSource(glyph(fixed.Int26_6(40), fixed.I(5), src)) // less than a pixel wide
	assert.Zero(t, ci.Width)
	assert.Equal(t, uint32(5), ci.Height)
	assert.Nil(t, ci.Bitmap)
	assert.False(t, ci.Drawable())
	assert.Equal(t, 7, ci.XIncrement)
	//
	ci = charInfoFromSource(glyph(fixed.I(5), 0, raster.Bitmap{}))
	assert.Equal(t, uint32(5), ci.Width)
	assert.Zero(t, ci.Height)
	assert.Nil(t, ci.Bitmap)
}

func TestBlankSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font")
	defer teardown()
	//
	ci := charInfoFromSource(glyph(0, 0, raster.Bitmap{}))
	assert.Equal(t, CharInfo{XOrigin: 1, YOrigin: 9, XIncrement: 7}, ci)
	assert.Equal(t, CharInfo{}, charInfoFromSource(nil))
}

func TestMetricsAreTruncated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font")
	defer teardown()
	//
	g := glyph(fixed.I(2)+63, fixed.I(1)+32, raster.Bitmap{Width: 3, Rows: 2, Pitch: 3,
		Buffer: []byte{1, 2, 3, 4, 5, 6}})
	g.Advance = fixed.I(5) + 63
	ci := charInfoFromSource(g)
	assert.Equal(t, uint32(2), ci.Width)
	assert.Equal(t, uint32(1), ci.Height)
	assert.Equal(t, 5, ci.XIncrement)
	assert.Equal(t, []byte{1, 2}, ci.Bitmap)
}

func TestCharsetString(t *testing.T) {
	assert.Equal(t, "ANSI", ANSI.String())
	assert.Equal(t, "ShiftJIS", ShiftJIS.String())
	assert.Equal(t, "Baltic", Baltic.String())
	assert.Equal(t, "Charset(200)", Charset(200).String())
	var c Charset
	assert.Equal(t, ANSI, c, "ANSI is the default charset")
	c, ok := ParseCharset("eastEurope")
	assert.True(t, ok)
	assert.Equal(t, EastEurope, c)
	_, ok = ParseCharset("EBCDIC")
	assert.False(t, ok)
}

func TestEnumeratePlatformFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font", "platfont.locate")
	defer teardown()
	//
	fonts := EnumeratePlatformFonts()
	t.Logf("%d installed font families", len(fonts))
	assert.Contains(t, fonts, "Go", "packaged fonts are always installed")
	fonts[0] = "changed"
	assert.NotEqual(t, "changed", EnumeratePlatformFonts()[0])
}
