package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io/fs"

	"github.com/npillmayer/platfont/core"
	"github.com/npillmayer/platfont/core/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"
)

// Engine is a rasterization context. The zero value is not usable, call
// NewEngine.
type Engine struct {
	rast   vector.Rasterizer
	mask   image.Alpha // coverage of the glyph loaded last
	faces  int         // number of open faces
	closed bool
}

// NewEngine creates a rasterization engine for exclusive use by one font
// instance.
func NewEngine() (*Engine, error) {
	e := &Engine{}
	tracer().Debugf("rasterization engine created")
	return e, nil
}

// Close releases the engine. Faces opened by the engine should be closed
// before. Closing an engine twice returns ErrEngineClosed.
func (e *Engine) Close() error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.faces > 0 {
		tracer().Errorf("rasterization engine closed with %d open face(s)", e.faces)
	}
	e.closed = true
	e.mask.Pix = nil
	return nil
}

// OpenFace loads the font at index 0 of a font file.
//
// Errors are classified: a missing file (or an empty path) wraps
// ErrFontNotFound with code core.EMISSING, undecodable data wraps
// ErrUnsupportedFormat with code core.EUNSUPPORTED. Other I/O errors carry
// code core.EINTERNAL.
func (e *Engine) OpenFace(path string) (*Face, error) {
	if e.closed {
		return nil, core.WrapError(ErrEngineClosed, core.EINTERNAL, "cannot open face with closed engine")
	}
	if path == "" {
		return nil, core.WrapError(ErrFontNotFound, core.EMISSING, "font file was not found")
	}
	sf, err := font.LoadOpenTypeFont(path)
	if err != nil {
		var perr *fs.PathError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, core.WrapError(fmt.Errorf("%w: %v", ErrFontNotFound, err), core.EMISSING,
				"font file was not found: %s", path)
		case errors.As(err, &perr):
			return nil, core.WrapError(err, core.EINTERNAL, "font file cannot be read: %s", path)
		}
		return nil, core.WrapError(fmt.Errorf("%w: %v", ErrUnsupportedFormat, err), core.EUNSUPPORTED,
			"font was found but format is unsupported: %s", path)
	}
	e.faces++
	tracer().Debugf("opened face %q from %s", sf.Fontname, path)
	return &Face{engine: e, font: sf}, nil
}

// render rasterizes glyph segments into the engine's mask. The mask is
// sized w × h, and (dx, dy) is the pixel offset moving the segments into
// the mask's coordinate space.
func (e *Engine) render(segments sfnt.Segments, w, h int, dx, dy float32) []byte {
	n := w * h
	if cap(e.mask.Pix) < n {
		e.mask.Pix = make([]uint8, n)
	}
	e.mask.Pix = e.mask.Pix[:n]
	for i := range e.mask.Pix {
		e.mask.Pix[i] = 0
	}
	e.mask.Stride = w
	e.mask.Rect = image.Rect(0, 0, w, h)
	e.rast.Reset(w, h)
	e.rast.DrawOp = draw.Src
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			e.rast.MoveTo(
				float32(seg.Args[0].X)/64+dx,
				float32(seg.Args[0].Y)/64+dy,
			)
		case sfnt.SegmentOpLineTo:
			e.rast.LineTo(
				float32(seg.Args[0].X)/64+dx,
				float32(seg.Args[0].Y)/64+dy,
			)
		case sfnt.SegmentOpQuadTo:
			e.rast.QuadTo(
				float32(seg.Args[0].X)/64+dx,
				float32(seg.Args[0].Y)/64+dy,
				float32(seg.Args[1].X)/64+dx,
				float32(seg.Args[1].Y)/64+dy,
			)
		case sfnt.SegmentOpCubeTo:
			e.rast.CubeTo(
				float32(seg.Args[0].X)/64+dx,
				float32(seg.Args[0].Y)/64+dy,
				float32(seg.Args[1].X)/64+dx,
				float32(seg.Args[1].Y)/64+dy,
				float32(seg.Args[2].X)/64+dx,
				float32(seg.Args[2].Y)/64+dy,
			)
		}
	}
	e.rast.Draw(&e.mask, e.mask.Bounds(), image.Opaque, image.Point{})
	return e.mask.Pix
}
