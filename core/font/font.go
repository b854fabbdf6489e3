/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "DejaVu Sans".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc. An example is "DejaVu Sans Bold".

* A "descriptor" is a symbolic request for a font, written in the name
syntax of fontconfig, e.g. "DejaVu Sans-12:bold".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"os"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'platfont.font'
func tracer() tracing.Trace {
	return tracing.Select("platfont.font")
}

// ScalableFont is a parsed font file. Only the first font of a collection
// is used.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container, not safe for sharing buffers
}

// LoadOpenTypeFont reads a font file and parses the font at index 0.
// Errors from reading the file are returned unchanged, so clients may test
// them with errors.Is(err, fs.ErrNotExist).
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses TTF, OTF or collection data (TTC, OTC, dfont).
// For collections the font at index 0 is selected.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	coll, err := sfnt.ParseCollection(f.Binary)
	if err != nil {
		return nil, err
	}
	if coll.NumFonts() > 1 {
		tracer().Debugf("font collection has %d fonts, selecting index 0", coll.NumFonts())
	}
	if f.SFNT, err = coll.Font(0); err != nil {
		return nil, err
	}
	var buf sfnt.Buffer
	f.Fontname, _ = f.SFNT.Name(&buf, sfnt.NameIDFull)
	return f, nil
}

// Family returns the font's family name, if present.
func (sf *ScalableFont) Family() string {
	var buf sfnt.Buffer
	name, err := sf.SFNT.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}
