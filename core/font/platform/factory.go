package platform

import (
	"github.com/npillmayer/platfont/core/locate"
)

// CreatePlatformFont creates and loads a platform font.
//
// If the font cannot be created, it is released and an error wrapping
// ErrCreation is returned. If configuration key 'lenient-fonts' is set,
// the invalid font is returned instead, with a nil error; it then reports
// zero metrics and empty glyphs.
func CreatePlatformFont(name string, size uint32, charset Charset, opts ...Option) (PlatformFont, error) {
	f := NewFont(opts...)
	err := f.Create(name, size, charset)
	if err == nil {
		return f, nil
	}
	if f.conf.GetBool("lenient-fonts") {
		tracer().Infof("using invalid font %q: %v", name, err)
		return f, nil
	}
	if cerr := f.Close(); cerr != nil {
		tracer().Errorf("closing font %q: %v", name, cerr)
	}
	return nil, err
}

// EnumeratePlatformFonts returns the family names of all installed fonts,
// sorted. The list is computed once per process.
func EnumeratePlatformFonts() []string {
	families := locate.SystemFonts()
	return append([]string(nil), families...)
}
