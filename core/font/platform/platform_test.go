package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/platfont/core"
	"github.com/npillmayer/platfont/core/font/raster"
	"github.com/npillmayer/platfont/core/locate"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// --- Test Suite Preparation ------------------------------------------------

type PlatformFontTestEnviron struct {
	suite.Suite
	dir      string
	resolver locate.StaticResolver
	font     *Font
}

// listen for 'go test' command --> run test methods
func TestPlatformFontFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "platfont.font", "platfont.raster")
	defer teardown()
	suite.Run(t, new(PlatformFontTestEnviron))
}

// run once, before test suite methods
func (env *PlatformFontTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("platfont.font").SetTraceLevel(tracing.LevelDebug)
	env.dir = env.T().TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(env.dir, name)
		env.Require().NoError(os.WriteFile(p, data, 0644))
		return p
	}
	env.resolver = locate.StaticResolver{
		"Go":         write("Go-Regular.ttf", goregular.TTF),
		"Go:bold":    write("Go-Bold.ttf", gobold.TTF),
		"Broken":     write("Broken.ttf", []byte("this is not a font at all")),
		"Vanished":   filepath.Join(env.dir, "Vanished.ttf"),
		"Empty":      write("Empty.otf", []byte{}),
		"PostScript": write("Type1.pfb", []byte("%!PS-AdobeFont-1.0: Type1 outlines")),
	}
}

// run before each test method
func (env *PlatformFontTestEnviron) SetupTest() {
	env.font = NewFont(WithResolver(env.resolver), WithConfiguration(testconfig.Conf{}))
	env.Require().NoError(env.font.Create("Go", 24, ANSI))
}

// run after each test method
func (env *PlatformFontTestEnviron) TearDownTest() {
	env.NoError(env.font.Close())
}

func (env *PlatformFontTestEnviron) newFont() *Font {
	return NewFont(WithResolver(env.resolver), WithConfiguration(testconfig.Conf{}))
}

// --- Tests -----------------------------------------------------------------

func (env *PlatformFontTestEnviron) TestMetrics() {
	f, err := sfnt.Parse(goregular.TTF)
	env.Require().NoError(err)
	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, fixed.I(24), xfont.HintingNone)
	env.Require().NoError(err)
	env.True(env.font.Valid())
	env.Equal(env.resolver["Go"], env.font.Path())
	env.Equal(uint32((m.Ascent+32)>>6), env.font.FontBaseLine())
	env.Equal(uint32((m.Ascent+m.Descent+32)>>6), env.font.FontHeight())
	env.True(env.font.FontHeight() >= env.font.FontBaseLine())
	env.Equal("Go", env.font.Name())
	env.Contains(env.font.Family(), "Go")
	env.Equal(uint32(24), env.font.Size())
	env.Equal(ANSI, env.font.Charset())
}

func (env *PlatformFontTestEnviron) TestCharsetIsInert() {
	f := env.newFont()
	defer f.Close()
	env.Require().NoError(f.Create("Go", 24, ShiftJIS))
	env.Equal(ShiftJIS, f.Charset())
	env.Equal(env.font.FontHeight(), f.FontHeight())
	env.Equal(env.font.CharInfo('g'), f.CharInfo('g'))
}

func (env *PlatformFontTestEnviron) TestIsValidChar() {
	env.False(env.font.IsValidChar(0x1F))
	env.True(env.font.IsValidChar(0x20))
	env.True(env.font.IsValidChar('A'))
	env.True(env.font.IsValidChar(0xFF))
	env.False(env.font.IsValidChar(0x100))
	env.False(env.font.IsValidChar(-1))
	env.False(env.font.IsValidByte(0x1F))
	env.True(env.font.IsValidByte(0x20))
	env.True(env.font.IsValidByte(0xFF))
	env.True(env.font.IsValidCharString("Abc"))
	env.True(env.font.IsValidCharString("ÿ"))
	env.False(env.font.IsValidCharString("Ā"))
	env.False(env.font.IsValidCharString(""))
	env.False(env.font.IsValidCharString("\xff"))
	env.False(env.font.IsValidCharString("\n"))
	// validity does not depend on the font
	var f Font
	env.True(f.IsValidChar('A'))
}

func (env *PlatformFontTestEnviron) TestCharInfo() {
	ci := env.font.CharInfo('A')
	env.T().Logf("'A' = %d × %d at (%d,%d), advance %d", ci.Width, ci.Height,
		ci.XOrigin, ci.YOrigin, ci.XIncrement)
	env.True(ci.Drawable())
	env.True(ci.Width > 0 && ci.Height > 0)
	env.Len(ci.Bitmap, int(ci.Width*ci.Height))
	env.True(ci.XIncrement > 0)
	env.True(ci.YOrigin > 0)
	env.True(ci.YOrigin <= int(env.font.FontBaseLine())+1)
	var ink int
	for _, c := range ci.Bitmap {
		ink += int(c)
	}
	env.True(ink > 0, "expected some coverage for 'A'")
	// descender
	g := env.font.CharInfo('g')
	env.True(g.Drawable())
	env.True(int(g.Height) > g.YOrigin, "'g' reaches below the baseline")
}

func (env *PlatformFontTestEnviron) TestCharInfoCopiesWholeBitmap() {
	f := env.newFont()
	defer f.Close()
	env.Require().NoError(f.Create("Go", 16, ANSI))
	for _, r := range "AHWgjy|@%.,;Q" {
		ci := f.CharInfo(r)
		g, err := f.face.LoadChar(r)
		env.Require().NoError(err)
		src := g.Bitmap
		env.Require().True(ci.Drawable(), "%q should be drawable", r)
		env.Len(ci.Bitmap, int(ci.Width*ci.Height), "%q", r)
		env.Equal(uint32(src.Width), ci.Width, "%q: width", r)
		env.Equal(uint32(src.Rows), ci.Height, "%q: height", r)
		env.Equal(g.BitmapLeft, ci.XOrigin, "%q", r)
		env.Equal(g.BitmapTop, ci.YOrigin, "%q", r)
		var srcInk, dstInk int
		for j := 0; j < src.Rows; j++ {
			for i := 0; i < src.Width; i++ {
				b := src.Buffer[j*src.Pitch+i]
				srcInk += int(b)
				if !env.Equal(b, ci.Bitmap[j*int(ci.Width)+i], "%q: pixel (%d,%d)", r, i, j) {
					return
				}
			}
		}
		for _, b := range ci.Bitmap {
			dstInk += int(b)
		}
		env.Equal(srcInk, dstInk, "%q lost ink", r)
	}
}

func (env *PlatformFontTestEnviron) TestCharInfoIsIdempotent() {
	a1 := env.font.CharInfo('A')
	_ = env.font.CharInfo('W')
	a2 := env.font.CharInfo('A')
	env.Equal(a1, a2)
	env.Require().True(a1.Drawable())
	a1.Bitmap[0] ^= 0xff
	env.NotEqual(a1.Bitmap[0], a2.Bitmap[0], "CharInfo bitmaps must not share memory")
}

func (env *PlatformFontTestEnviron) TestCharInfoStringForm() {
	env.Equal(env.font.CharInfo('A'), env.font.CharInfoString("Abc"))
	env.Equal(env.font.CharInfo('é'), env.font.CharInfoString("é"))
	env.Equal(CharInfo{}, env.font.CharInfoString(""))
	env.Equal(CharInfo{}, env.font.CharInfoString("\xff"))
}

func (env *PlatformFontTestEnviron) TestBlankGlyph() {
	ci := env.font.CharInfo(' ')
	env.Zero(ci.Width)
	env.Zero(ci.Height)
	env.Nil(ci.Bitmap)
	env.False(ci.Drawable())
	env.True(ci.XIncrement > 0, "space advances the pen")
}

func (env *PlatformFontTestEnviron) TestUnmappedChar() {
	env.Equal(CharInfo{}, env.font.CharInfo(0x10FFFD))
	// font is still usable afterwards
	env.True(env.font.CharInfo('A').Drawable())
}

func (env *PlatformFontTestEnviron) TestCreateNotFound() {
	f := env.newFont()
	err := f.Create("Nonexistent Font", 24, ANSI)
	env.Require().Error(err)
	env.True(errors.Is(err, ErrCreation))
	env.Equal(core.EMISSING, core.Code(err))
	env.assertInvalid(f)
	env.NoError(f.Close())
}

func (env *PlatformFontTestEnviron) TestCreateVanishedFile() {
	f := env.newFont()
	err := f.Create("Vanished", 24, ANSI)
	env.True(errors.Is(err, ErrCreation))
	env.True(errors.Is(err, raster.ErrFontNotFound))
	env.Equal(core.EMISSING, core.Code(err))
	env.assertInvalid(f)
	env.NoError(f.Close())
}

func (env *PlatformFontTestEnviron) TestCreateUnsupportedFormat() {
	for _, name := range []string{"Broken", "Empty", "PostScript"} {
		f := env.newFont()
		err := f.Create(name, 24, ANSI)
		env.True(errors.Is(err, ErrCreation), name)
		env.True(errors.Is(err, raster.ErrUnsupportedFormat), name)
		env.Equal(core.EUNSUPPORTED, core.Code(err), name)
		env.assertInvalid(f)
		env.NoError(f.Close())
	}
}

func (env *PlatformFontTestEnviron) TestCreateWithZeroSize() {
	f := env.newFont()
	err := f.Create("Go", 0, ANSI)
	env.True(errors.Is(err, ErrCreation))
	env.Equal(core.EINVALID, core.Code(err))
	env.assertInvalid(f)
	env.NoError(f.Close())
}

func (env *PlatformFontTestEnviron) TestEngineFailure() {
	boom := errors.New("no rasterizer today")
	f := NewFont(WithResolver(env.resolver), WithConfiguration(testconfig.Conf{}),
		WithEngineFactory(func() (*raster.Engine, error) { return nil, boom }))
	err := f.Create("Go", 24, ANSI)
	env.True(errors.Is(err, ErrCreation))
	env.True(errors.Is(err, boom))
	env.Equal(core.EINTERNAL, core.Code(err))
	env.assertInvalid(f)
	env.NoError(f.Close())
}

func (env *PlatformFontTestEnviron) TestCloseReleasesOnce() {
	var engine *raster.Engine
	f := NewFont(WithResolver(env.resolver), WithConfiguration(testconfig.Conf{}),
		WithEngineFactory(func() (*raster.Engine, error) {
			var err error
			engine, err = raster.NewEngine()
			return engine, err
		}))
	env.Require().NoError(f.Create("Go:bold", 16, ANSI))
	env.NoError(f.Close())
	env.NoError(f.Close())
	env.assertInvalid(f)
	env.True(errors.Is(engine.Close(), raster.ErrEngineClosed), "engine should have been closed")
	// failure path, only the engine exists
	f = NewFont(WithResolver(env.resolver), WithConfiguration(testconfig.Conf{}),
		WithEngineFactory(func() (*raster.Engine, error) {
			var err error
			engine, err = raster.NewEngine()
			return engine, err
		}))
	env.Error(f.Create("Nonexistent Font", 16, ANSI))
	env.NoError(f.Close())
	env.True(errors.Is(engine.Close(), raster.ErrEngineClosed), "engine should have been closed")
}

func (env *PlatformFontTestEnviron) TestRecreate() {
	f := env.newFont()
	defer f.Close()
	env.Require().NoError(f.Create("Go", 12, ANSI))
	h12 := f.FontHeight()
	env.Require().NoError(f.Create("Go", 48, ANSI))
	env.True(f.FontHeight() > h12)
	env.Error(f.Create("Nonexistent Font", 48, ANSI))
	env.assertInvalid(f)
}

func (env *PlatformFontTestEnviron) TestIndependentFonts() {
	bold := env.newFont()
	env.Require().NoError(bold.Create("Go:bold", 24, ANSI))
	r := env.font.CharInfo('W')
	b := bold.CharInfo('W')
	env.True(r.Drawable() && b.Drawable())
	env.NoError(bold.Close())
	env.Equal(r, env.font.CharInfo('W'), "closing one font must not affect another")
}

func (env *PlatformFontTestEnviron) TestFactory() {
	pf, err := CreatePlatformFont("Go", 20, Greek, WithResolver(env.resolver),
		WithConfiguration(testconfig.Conf{}))
	env.Require().NoError(err)
	env.Require().NotNil(pf)
	env.True(pf.FontHeight() > 0)
	env.Equal(Greek, pf.(*Font).Charset())
	env.NoError(pf.Close())
	//
	pf, err = CreatePlatformFont("Nonexistent Font", 20, ANSI, WithResolver(env.resolver),
		WithConfiguration(testconfig.Conf{}))
	env.Nil(pf)
	env.True(errors.Is(err, ErrCreation))
	env.Equal(core.EMISSING, core.Code(err))
	//
	pf, err = CreatePlatformFont("Broken", 20, ANSI, WithResolver(env.resolver),
		WithConfiguration(testconfig.Conf{"lenient-fonts": true}))
	env.NoError(err)
	env.Require().NotNil(pf)
	env.Zero(pf.FontHeight())
	env.Zero(pf.FontBaseLine())
	env.Equal(CharInfo{}, pf.CharInfo('A'))
	env.NoError(pf.Close())
}

func (env *PlatformFontTestEnviron) assertInvalid(f *Font) {
	env.False(f.Valid())
	env.Equal("", f.Family())
	env.Zero(f.FontHeight())
	env.Zero(f.FontBaseLine())
	for _, r := range []rune{'A', ' ', 'g', 0x10FFFD} {
		env.Equal(CharInfo{}, f.CharInfo(r))
	}
	env.Equal(CharInfo{}, f.CharInfoString("A"))
}
