package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/platfont/core"
	"github.com/npillmayer/platfont/core/font"
	"github.com/npillmayer/schuko"
)

// Resolver maps a symbolic font name to the path of a font file.
// An empty result means that no font could be found.
//
// Resolvers must not keep state between calls which would change the result
// for an unchanged font installation.
type Resolver interface {
	Resolve(name string) string
}

// ResolverFunc is an adapter to use ordinary functions as resolvers.
type ResolverFunc func(name string) string

// Resolve calls f(name).
func (f ResolverFunc) Resolve(name string) string {
	return f(name)
}

// Chain is a sequence of resolvers, tried in order. The first non-empty
// result wins.
type Chain []Resolver

// Resolve asks every resolver of the chain in turn.
func (c Chain) Resolve(name string) string {
	for _, r := range c {
		if r == nil {
			continue
		}
		if p := r.Resolve(name); p != "" {
			return p
		}
	}
	return ""
}

// StaticResolver resolves names from a fixed table. Names are compared
// literally.
type StaticResolver map[string]string

// Resolve looks up name in the table.
func (r StaticResolver) Resolve(name string) string {
	return r[name]
}

// NotFound returns an application error for a font name which could not be
// resolved.
func NotFound(name string) error {
	e := fmt.Errorf("font missing: %q", name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

// --- System resolver -------------------------------------------------------

// NewSystemResolver creates the default resolver for the local platform.
// conf may be nil, in which case the global configuration is used.
//
// Resolvers are tried in this order:
//
//	1. names which denote an existing font file
//	2. the Go fonts packaged with this module
//	3. fontconfig (fc-match)
//	4. a scan of the platform's font folders
//
// The packaged Go fonts therefore shadow a "Go" family installed on the
// platform, which makes the font for "Go" identical on every machine.
func NewSystemResolver(conf schuko.Configuration) Resolver {
	if conf == nil {
		conf = GlobalConfiguration()
	}
	fc := NewFontConfig(conf)
	return Chain{
		ResolverFunc(resolveFontFile),
		NewPackagedResolver(conf),
		ResolverFunc(fc.Match),
		NewScanResolver(fc),
	}
}

var fontFileExtensions = []string{".ttf", ".otf", ".ttc", ".otc"}

func hasFontFileExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range fontFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// resolveFontFile resolves names which denote a font file, either by path
// or by file name within one of the platform's font folders.
func resolveFontFile(name string) string {
	if name == "" {
		return ""
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
		tracer().Infof("font %q is a file", name)
		return name
	}
	if !hasFontFileExtension(name) || strings.ContainsRune(name, os.PathSeparator) {
		return ""
	}
	if p, err := findfont.Find(name); err == nil && p != "" {
		tracer().Infof("font file %q found as %s", name, p)
		return p
	}
	return ""
}

// --- Scanning font folders -------------------------------------------------

// ScanResolver substitutes a font by scanning the platform's font folders
// and scoring every font file against the requested family, style and
// weight. Matches with low confidence are rejected.
//
// The scan is performed once per resolver.
type ScanResolver struct {
	fc    *FontConfig
	once  sync.Once
	descs []font.Descriptor
}

// NewScanResolver creates a resolver scanning font folders. If fc is
// non-nil and fontconfig is able to list the installed fonts, its list is
// used instead of the file names found in the font folders.
func NewScanResolver(fc *FontConfig) *ScanResolver {
	return &ScanResolver{fc: fc}
}

// Resolve returns the closest match for name, or "".
func (r *ScanResolver) Resolve(name string) string {
	r.once.Do(func() {
		if r.fc != nil {
			if descs, ok := r.fc.List(); ok && len(descs) > 0 {
				r.descs = descs
				return
			}
		}
		r.descs = scanFontFolders()
	})
	pattern := font.ParseDescriptor(name)
	for _, family := range pattern.Families {
		desc, variant, confidence := font.ClosestMatch(r.descs, family, pattern.Style, pattern.Weight)
		tracer().Debugf("closest match for %q: %s|%s, confidence %d", family, desc.Family,
			variant, confidence)
		if confidence > font.LowConfidence {
			tracer().Infof("font %q substituted by %s", name, desc.Path)
			return desc.Path
		}
	}
	return ""
}

func scanFontFolders() []font.Descriptor {
	paths := findfont.List()
	descs := make([]font.Descriptor, 0, len(paths))
	for _, p := range paths {
		descs = append(descs, font.DescriptorForFile(p))
	}
	tracer().Debugf("found %d font files in font folders", len(descs))
	return descs
}
