package platform

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/platfont/core"
	"github.com/npillmayer/platfont/core/font/raster"
	"github.com/npillmayer/platfont/core/locate"
	"github.com/npillmayer/schuko"
)

// Font is a platform font, rasterized by an engine of its own.
//
// The zero value is an invalid font, ready for Create. Fonts created with
// NewFont may be configured with options.
type Font struct {
	name     string
	size     uint32
	charset  Charset
	path     string
	baseline uint32
	height   uint32
	valid    bool
	engine   *raster.Engine
	face     *raster.Face
	resolver locate.Resolver
	conf     schuko.Configuration
	mkEngine func() (*raster.Engine, error)
}

var _ PlatformFont = (*Font)(nil)

// Option configures a Font.
type Option func(*Font)

// WithResolver sets the resolver used to find font files. The default is
// the system resolver of package locate.
func WithResolver(r locate.Resolver) Option {
	return func(f *Font) {
		f.resolver = r
	}
}

// WithConfiguration sets the configuration for a font. The default is the
// global application configuration.
func WithConfiguration(conf schuko.Configuration) Option {
	return func(f *Font) {
		f.conf = conf
	}
}

// WithEngineFactory replaces the constructor for rasterization engines.
func WithEngineFactory(mk func() (*raster.Engine, error)) Option {
	return func(f *Font) {
		f.mkEngine = mk
	}
}

// NewFont creates an uninitialized font. Call Create to load it.
func NewFont(opts ...Option) *Font {
	f := &Font{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create loads a font. name is a font name in the syntax of fontconfig, size
// is the pixel size. charset is recorded, but does not influence loading.
//
// If the font cannot be created, Create returns an error wrapping
// ErrCreation, carrying a core error code: core.EMISSING if the font cannot
// be found, core.EUNSUPPORTED if the font file cannot be decoded. The font
// remains usable as an invalid font with zero metrics and empty glyphs.
//
// Calling Create on a font which has been created before releases the
// previous resources first.
func (f *Font) Create(name string, size uint32, charset Charset) error {
	if err := f.release(); err != nil {
		tracer().Errorf("releasing previous font %q: %v", f.name, err)
	}
	f.name, f.size, f.charset = name, size, charset
	f.path = ""
	f.baseline, f.height = 0, 0
	f.valid = false
	if f.conf == nil {
		f.conf = locate.GlobalConfiguration()
	}
	if f.mkEngine == nil {
		f.mkEngine = raster.NewEngine
	}
	var err error
	if f.engine, err = f.mkEngine(); err != nil || f.engine == nil {
		if err == nil {
			err = errors.New("no engine")
		}
		f.engine = nil
		tracer().Errorf("cannot create rasterization engine for font %q: %v", name, err)
		return creationError(err, core.EINTERNAL, "cannot initialize rasterizer for font %s", name)
	}
	if size == 0 {
		tracer().Errorf("font %q requested with pixel size 0", name)
		return creationError(errors.New("pixel size 0"), core.EINVALID, "invalid size for font %s", name)
	}
	if f.resolver == nil {
		f.resolver = locate.NewSystemResolver(f.conf)
	}
	f.path = f.resolver.Resolve(name)
	if f.path == "" {
		tracer().Errorf("font not found: %q", name)
		return creationError(locate.NotFound(name), core.EMISSING, "font not found: %s", name)
	}
	face, err := f.engine.OpenFace(f.path)
	if err != nil {
		if errors.Is(err, raster.ErrUnsupportedFormat) {
			tracer().Errorf("font %q was found at %s but format is unsupported", name, f.path)
		} else {
			tracer().Errorf("font %q cannot be loaded from %s: %v", name, f.path, err)
		}
		return creationError(err, core.Code(err), "cannot load font %s", name)
	}
	f.face = face
	if err = face.SetPixelSize(size); err != nil {
		tracer().Errorf("font %q cannot be scaled to %d px: %v", name, size, err)
		return creationError(err, core.EINTERNAL, "cannot scale font %s", name)
	}
	m := face.SizeMetrics()
	asc, desc := int32(m.Ascender), int32(m.Descender)
	if desc < 0 {
		desc = -desc
	}
	if asc < 0 {
		asc = 0
	}
	f.baseline = uint32((asc + 32) >> 6)
	f.height = uint32((asc + desc + 32) >> 6)
	f.valid = true
	tracer().Infof("font %q loaded from %s at %d px: height=%d, baseline=%d",
		name, f.path, size, f.height, f.baseline)
	return nil
}

func creationError(cause error, code int, format string, v ...interface{}) error {
	return core.WrapError(fmt.Errorf("%w: %w", ErrCreation, cause), code, format, v...)
}

// Name returns the symbolic name the font has been created with.
func (f *Font) Name() string {
	return f.name
}

// Size returns the requested pixel size.
func (f *Font) Size() uint32 {
	return f.size
}

// Charset returns the charset the font has been created with.
func (f *Font) Charset() Charset {
	return f.charset
}

// Path returns the font file the name has been resolved to, or "".
func (f *Font) Path() string {
	return f.path
}

// Family returns the family name stored in the loaded font file, or "" for
// an invalid font. It may differ from the requested name if the font has
// been substituted.
func (f *Font) Family() string {
	if !f.valid || f.face == nil {
		return ""
	}
	return f.face.Font().Family()
}

// Valid is true if the font has been created successfully and is not closed.
func (f *Font) Valid() bool {
	return f.valid
}

// FontHeight returns the line height in pixels, i.e. ascender plus
// descender, rounded. It is 0 for an invalid font.
func (f *Font) FontHeight() uint32 {
	return f.height
}

// FontBaseLine returns the rounded ascender in pixels. It is 0 for an
// invalid font.
func (f *Font) FontBaseLine() uint32 {
	return f.baseline
}

// IsValidChar is true for characters from U+0020 to U+00FF.
func (f *Font) IsValidChar(r rune) bool {
	return r >= 0x20 && r < 0x100
}

// IsValidByte is IsValidChar for a single byte character code.
func (f *Font) IsValidByte(b byte) bool {
	return f.IsValidChar(rune(b))
}

// IsValidCharString checks the first character of a UTF-8 string. Empty
// strings and invalid encodings are not valid.
func (f *Font) IsValidCharString(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return f.IsValidChar(r)
}

// CharInfo rasterizes a character. If the character cannot be loaded, e.g.
// because the font does not map it or the font is invalid, an empty
// CharInfo is returned.
func (f *Font) CharInfo(r rune) CharInfo {
	if !f.valid || f.face == nil {
		return CharInfo{}
	}
	g, err := f.face.LoadChar(r)
	if err != nil {
		tracer().Debugf("font %q: cannot load %#U: %v", f.name, r, err)
		return CharInfo{}
	}
	return charInfoFromSource(g)
}

// CharInfoString is CharInfo for the first character of a UTF-8 string.
// Empty strings and invalid encodings result in an empty CharInfo.
func (f *Font) CharInfoString(s string) CharInfo {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n <= 1 {
		return CharInfo{}
	}
	return f.CharInfo(r)
}

// Close releases the font's face and engine, in this order. Closing a font
// more than once is a no-op. After Close the font is invalid.
func (f *Font) Close() error {
	f.valid = false
	f.baseline, f.height = 0, 0
	return f.release()
}

func (f *Font) release() error {
	var errs []error
	if f.face != nil {
		errs = append(errs, f.face.Close())
		f.face = nil
	}
	if f.engine != nil {
		errs = append(errs, f.engine.Close())
		f.engine = nil
	}
	return errors.Join(errs...)
}
