package locate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/platfont/core/font"
	"github.com/npillmayer/schuko"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

type packagedFont struct {
	family  string
	variant string
	file    string
	ttf     []byte
}

// The Go fonts are always available, independent of the platform.
var packagedFonts = []packagedFont{
	{"Go", "regular", "Go-Regular.ttf", goregular.TTF},
	{"Go", "bold", "Go-Bold.ttf", gobold.TTF},
	{"Go", "italic", "Go-Italic.ttf", goitalic.TTF},
	{"Go", "bolditalic", "Go-BoldItalic.ttf", gobolditalic.TTF},
	{"Go", "500", "Go-Medium.ttf", gomedium.TTF},
	{"Go Mono", "regular", "GoMono-Regular.ttf", gomono.TTF},
	{"Go Mono", "bold", "GoMono-Bold.ttf", gomonobold.TTF},
}

// PackagedResolver resolves names of the fonts packaged with this module.
// Font families have to match exactly (ignoring case and spaces). A
// packaged font is written to the user's cache directory the first time it
// is resolved, as clients expect a font file.
type PackagedResolver struct {
	conf schuko.Configuration
}

// NewPackagedResolver creates a resolver for packaged fonts. The cache
// folder is derived from configuration key 'app-key'.
func NewPackagedResolver(conf schuko.Configuration) *PackagedResolver {
	return &PackagedResolver{conf: conf}
}

// Resolve returns the path of a cached copy of a packaged font, or "".
func (r *PackagedResolver) Resolve(name string) string {
	pattern := font.ParseDescriptor(name)
	family := squeeze(pattern.Family())
	if family == "" {
		return ""
	}
	var candidates []font.Descriptor
	for _, pf := range packagedFonts {
		if squeeze(pf.family) == family {
			candidates = append(candidates, font.Descriptor{
				Family:   pf.family,
				Path:     pf.file,
				Variants: []string{pf.variant},
			})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	desc, _, confidence := font.ClosestMatch(candidates, pattern.Family(), pattern.Style, pattern.Weight)
	if confidence <= font.LowConfidence {
		return ""
	}
	for _, pf := range packagedFonts {
		if pf.file == desc.Path {
			p, err := r.materialize(pf)
			if err != nil {
				tracer().Errorf("cannot cache packaged font %s: %v", pf.file, err)
				return ""
			}
			tracer().Infof("font %q is packaged font %s", name, p)
			return p
		}
	}
	return ""
}

// materialize writes a packaged font to the cache directory, if not
// already present.
func (r *PackagedResolver) materialize(pf packagedFont) (string, error) {
	dir, err := CacheDirPath(r.conf, "fonts")
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, pf.file)
	if fi, err := os.Stat(p); err == nil && fi.Size() == int64(len(pf.ttf)) {
		return p, nil
	}
	if err = os.WriteFile(p, pf.ttf, 0644); err != nil {
		return "", err
	}
	return p, nil
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from conf (defaulting to
// "platfont"). Clients may specify a sequence of folder names, which will be
// appended to the base cache path. Non-existing sub-folders will be created
// as necessary (with permissions 755).
func CacheDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	appkey := "platfont"
	if conf != nil && conf.GetString("app-key") != "" {
		appkey = conf.GetString("app-key")
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	cachedir = filepath.Join(append([]string{cachedir, appkey}, subfolders...)...)
	tracer().Debugf("caching in %s", cachedir)
	if err = os.MkdirAll(cachedir, 0755); err != nil {
		return "", err
	}
	return cachedir, nil
}

// squeeze normalizes a family name, ignoring case and spaces.
func squeeze(s string) string {
	s = font.NormalizeFontname(s, xfont.StyleNormal, xfont.WeightNormal)
	return strings.ReplaceAll(s, "_", "")
}
