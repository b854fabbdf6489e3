package locate

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/platfont/core"
	"github.com/npillmayer/platfont/core/font"
	"github.com/npillmayer/schuko"
	xfont "golang.org/x/image/font"
)

// FontConfig queries the fontconfig system
// (https://www.freedesktop.org/wiki/Software/fontconfig/) by calling its
// binaries 'fc-match' and 'fc-list'.
//
// The output of 'fc-list' is read at most once per FontConfig value. If the
// configuration contains an 'app-key', it is additionally copied to the
// user's config directory and read from there by subsequent processes.
type FontConfig struct {
	conf  schuko.Configuration
	once  sync.Once
	descs []font.Descriptor
	ok    bool
}

// NewFontConfig creates a fontconfig query object.
func NewFontConfig(conf schuko.Configuration) *FontConfig {
	return &FontConfig{conf: conf}
}

// Match asks fontconfig for the best match for a font name. fontconfig
// applies system and default substitutions itself, so usually some font
// will be returned even for unknown families. If fontconfig is not
// available, Match returns "".
func (fc *FontConfig) Match(name string) string {
	fcmatch, err := findFontConfigBinary(fc.conf, "fc-match")
	if err != nil {
		return ""
	}
	out, err := exec.Command(fcmatch, "--format=%{file}", name).Output()
	if err != nil {
		tracer().Debugf("fc-match %q: %v", name, err)
		return ""
	}
	p := strings.TrimSpace(string(out))
	if p != "" {
		tracer().Infof("fontconfig matched %q to %s", name, p)
	}
	return p
}

// List returns descriptors for all fonts known to fontconfig. The boolean
// result is false if fontconfig could not be queried.
func (fc *FontConfig) List() ([]font.Descriptor, bool) {
	fc.once.Do(func() {
		fc.descs, fc.ok = loadFontConfigList(fc.conf)
		tracer().Infof("loaded fontconfig list: %d fonts", len(fc.descs))
	})
	return fc.descs, fc.ok
}

// findFontConfigBinary returns the absolute path of a fontconfig binary.
// The location is read from the configuration key of the same name; if it
// is unset, the binary is searched in $PATH.
func findFontConfigBinary(conf schuko.Configuration, binary string) (string, error) {
	var fcpath string
	if conf != nil {
		fcpath = conf.GetString(binary)
	}
	if fcpath == "" {
		p, err := exec.LookPath(binary)
		if err != nil {
			tracer().Debugf("fontconfig not configured: key %q should point to location of binary", binary)
			return "", core.WrapError(err, core.EMISSING, "fontconfig binary not found: %s", binary)
		}
		fcpath = p
	}
	if !filepath.IsAbs(fcpath) {
		return "", core.Error(core.EINVALID, "fontconfig binary %s must point to absolute path: %s",
			binary, fcpath)
	}
	if fi, err := os.Stat(fcpath); err != nil || fi.IsDir() || (fi.Mode().Perm()&0100) == 0 {
		err = core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
		tracer().Errorf(err.Error())
		return "", err
	}
	return fcpath, nil
}

// cacheFontConfigList returns the file name of a copy of fc-list's output
// in the user's config directory, creating it if necessary.
func cacheFontConfigList(conf schuko.Configuration, update bool) (string, bool) {
	appkey := conf.GetString("app-key")
	tracer().Debugf("config[app-key] = %s", appkey)
	if appkey == "" {
		return "", false
	}
	uconfdir, err := os.UserConfigDir()
	if err != nil {
		tracer().Errorf("user config directory not set")
		return "", false
	}
	dir := filepath.Join(uconfdir, appkey)
	fcListFilename := filepath.Join(dir, "fontlist.txt")
	if _, err := os.Stat(fcListFilename); err == nil && !update {
		return fcListFilename, true
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		err = core.WrapError(err, core.EINVALID,
			"user configuration path cannot be created: %s", dir)
		tracer().Errorf(err.Error())
		return "", false
	}
	out, err := runFontConfigList(conf)
	if err != nil {
		return "", false
	}
	if err = os.WriteFile(fcListFilename, out, 0644); err != nil {
		err = core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename)
		tracer().Errorf(err.Error())
		return "", false
	}
	return fcListFilename, true
}

func runFontConfigList(conf schuko.Configuration) ([]byte, error) {
	fclist, err := findFontConfigBinary(conf, "fc-list")
	if err != nil {
		return nil, err
	}
	out, err := exec.Command(fclist).Output()
	if err != nil {
		err = core.WrapError(err, core.EINTERNAL, "fontconfig binary failed: %s", fclist)
		tracer().Errorf(err.Error())
		return nil, err
	}
	return out, nil
}

func loadFontConfigList(conf schuko.Configuration) ([]font.Descriptor, bool) {
	if conf == nil {
		return []font.Descriptor{}, false
	}
	var r io.Reader
	if fclist, ok := cacheFontConfigList(conf, false); ok {
		f, err := os.Open(fclist)
		if err != nil {
			err = core.WrapError(err, core.EINVALID,
				"fontconfig font list cannot be opened: %s", fclist)
			tracer().Errorf(err.Error())
			return []font.Descriptor{}, false
		}
		defer f.Close()
		r = f
	} else {
		out, err := runFontConfigList(conf)
		if err != nil {
			return []font.Descriptor{}, false
		}
		r = bytes.NewReader(out)
	}
	descs, err := parseFontConfigList(r)
	if err != nil {
		err = core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of fontconfig font list")
		tracer().Errorf(err.Error())
		return descs, false
	}
	return descs, true
}

// parseFontConfigList reads lines of fc-list's default output format:
//
//     /usr/share/fonts/TTF/DejaVuSans-Bold.ttf: DejaVu Sans:style=Bold
//
// Only the first (non-localized) family name and style are used.
func parseFontConfigList(r io.Reader) ([]font.Descriptor, error) {
	descs := []font.Descriptor{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		fontpath := strings.TrimSpace(fields[0])
		if !hasFontFileExtension(fontpath) {
			continue
		}
		fontname := strings.TrimSpace(strings.Split(fields[1], ",")[0])
		fontname = strings.TrimPrefix(fontname, ".")
		if fontname == "" {
			continue
		}
		fontvari := strings.TrimPrefix(strings.TrimSpace(fields[2]), "style=")
		fontvari = strings.Split(fontvari, ",")[0]
		descs = append(descs, font.Descriptor{
			Family:   fontname,
			Path:     fontpath,
			Variants: []string{variantFromStyleName(fontvari)},
		})
	}
	return descs, scanner.Err()
}

// variantFromStyleName converts a fontconfig style name like "Bold Oblique"
// to a variant name as used in font descriptors.
func variantFromStyleName(stylename string) string {
	s := strings.ToLower(stylename)
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	switch {
	case strings.Contains(s, "italic"):
		style = xfont.StyleItalic
	case strings.Contains(s, "oblique"):
		style = xfont.StyleOblique
	}
	switch {
	case strings.Contains(s, "extrabold"), strings.Contains(s, "extra bold"),
		strings.Contains(s, "black"), strings.Contains(s, "heavy"):
		weight = xfont.WeightExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "bold"):
		weight = xfont.WeightBold
	case strings.Contains(s, "medium"):
		weight = xfont.WeightMedium
	case strings.Contains(s, "light"), strings.Contains(s, "thin"):
		weight = xfont.WeightLight
	}
	return font.VariantName(style, weight)
}
