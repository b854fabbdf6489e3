package font

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// NormalizeFontname creates a key for a font name, style and weight.
// Spaces are replaced by underscores, a file extension is removed and the
// name is case-folded.
func NormalizeFontname(fname string, style font.Style, weight font.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = folder.String(fname)
	switch style {
	case font.StyleItalic, font.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case font.WeightLight, font.WeightExtraLight, font.WeightThin:
		fname += "-light"
	case font.WeightBold, font.WeightExtraBold, font.WeightSemiBold, font.WeightBlack:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (font.Style, font.Weight) {
	fontfilename = filepath.Base(fontfilename)
	ext := filepath.Ext(fontfilename)
	fontfilename = folder.String(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return font.StyleNormal, font.WeightLight
		case "normal", "medium", "regular", "r", "book":
			return font.StyleNormal, font.WeightNormal
		case "bold", "b":
			return font.StyleNormal, font.WeightBold
		case "xbold", "black":
			return font.StyleNormal, font.WeightExtraBold
		}
	}
	style, weight := font.StyleNormal, font.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = font.StyleItalic
	} else if strings.Contains(fontfilename, "oblique") {
		style = font.StyleOblique
	}
	if strings.Contains(fontfilename, "light") {
		weight = font.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = font.WeightBold
	}
	return style, weight
}

// FamilyFromFilename strips style and weight suffixes from a font file name,
// e.g. "DejaVuSans-BoldOblique.ttf" gives "DejaVuSans".
func FamilyFromFilename(fontfilename string) string {
	base := filepath.Base(fontfilename)
	base = base[:len(base)-len(filepath.Ext(base))]
	if dash := strings.LastIndex(base, "-"); dash > 0 {
		base = base[:dash]
	}
	return base
}

// VariantName returns a variant name for a style and weight, as used in
// Descriptor.Variants, e.g. "bolditalic".
func VariantName(style font.Style, weight font.Weight) string {
	var v string
	switch weight {
	case font.WeightThin, font.WeightExtraLight, font.WeightLight:
		v = "light"
	case font.WeightMedium:
		v = "500"
	case font.WeightSemiBold, font.WeightBold:
		v = "bold"
	case font.WeightExtraBold, font.WeightBlack:
		v = "extrabold"
	}
	switch style {
	case font.StyleItalic:
		v += "italic"
	case font.StyleOblique:
		v += "oblique"
	}
	if v == "" {
		return "regular"
	}
	return v
}

// DescriptorForFile creates a descriptor for a font file, guessing family,
// style and weight from the file name.
func DescriptorForFile(path string) Descriptor {
	s, w := GuessStyleAndWeight(path)
	return Descriptor{
		Family:   FamilyFromFilename(path),
		Path:     path,
		Variants: []string{VariantName(s, w)},
	}
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// ClosestMatch scans a list of font desriptors and returns the closest match
// for a given family pattern, style and weight. Spaces in family names are
// ignored, as font files rarely carry them.
// If no variant matches, returns `NoConfidence`.
//
// Descriptors are scanned in order; ties are resolved in favour of the
// shorter family name, then of the earlier descriptor.
func ClosestMatch(fdescs []Descriptor, pattern string, style font.Style,
	weight font.Weight) (match Descriptor, variant string, confidence MatchConfidence) {
	//
	r, err := regexp.Compile(regexp.QuoteMeta(squeeze(pattern)))
	if err != nil {
		tracer().Errorf("invalid font name pattern")
		return
	}
	for _, fdesc := range fdescs {
		fam := squeeze(fdesc.Family)
		if !r.MatchString(fam) {
			continue
		}
		for _, v := range fdesc.Variants {
			s := MatchStyle(v, style)
			w := MatchWeight(v, weight)
			if s == NoConfidence || w == NoConfidence {
				continue
			}
			c := (s + w) / 2
			if c > confidence || (c == confidence && len(fam) < len(squeeze(match.Family))) {
				confidence = c
				variant = v
				match = fdesc
			}
		}
	}
	return
}

func squeeze(s string) string {
	return strings.ReplaceAll(folder.String(s), " ", "")
}

// MatchStyle trys to match a font-variant to a given style.
func MatchStyle(variantName string, style font.Style) MatchConfidence {
	variantName = folder.String(variantName)
	italic := strings.Contains(variantName, "italic")
	oblique := strings.Contains(variantName, "obliq")
	switch style {
	case font.StyleNormal:
		if italic || oblique {
			return NoConfidence
		}
		switch variantName {
		case "regular", "400", "normal":
			return PerfectConfidence
		}
		return HighConfidence
	case font.StyleItalic:
		if italic {
			return PerfectConfidence
		}
		if oblique {
			return HighConfidence
		}
		return NoConfidence
	case font.StyleOblique:
		if oblique {
			return PerfectConfidence
		}
		if italic {
			return HighConfidence
		}
		return NoConfidence
	}
	return NoConfidence
}

// MatchWeight trys to match a font-variant to a given weight.
// Style suffixes of the variant name are ignored.
func MatchWeight(variantName string, weight font.Weight) MatchConfidence {
	/* from https://pkg.go.dev/golang.org/x/image/font
	WeightThin       Weight = -3 // CSS font-weight value 100.
	WeightExtraLight Weight = -2 // CSS font-weight value 200.
	WeightLight      Weight = -1 // CSS font-weight value 300.
	WeightNormal     Weight = +0 // CSS font-weight value 400.
	WeightMedium     Weight = +1 // CSS font-weight value 500.
	WeightSemiBold   Weight = +2 // CSS font-weight value 600.
	WeightBold       Weight = +3 // CSS font-weight value 700.
	WeightExtraBold  Weight = +4 // CSS font-weight value 800.
	WeightBlack      Weight = +5 // CSS font-weight value 900.
	*/
	variantName = folder.String(variantName)
	variantName = strings.TrimSuffix(variantName, "italic")
	variantName = strings.TrimSuffix(variantName, "oblique")
	if variantName == "" {
		variantName = "regular"
	}
	if strconv.Itoa((int(weight)+4)*100) == variantName {
		return PerfectConfidence
	}
	switch variantName {
	case "regular", "400", "normal", "text":
		switch weight {
		case font.WeightNormal:
			return PerfectConfidence
		case font.WeightMedium:
			return HighConfidence
		case font.WeightThin, font.WeightExtraLight, font.WeightLight:
			return LowConfidence
		}
		return NoConfidence
	case "light", "100", "200", "300":
		switch weight {
		case font.WeightThin, font.WeightExtraLight, font.WeightLight:
			return PerfectConfidence
		case font.WeightNormal, font.WeightMedium:
			return LowConfidence
		}
		return NoConfidence
	case "500", "medium":
		switch weight {
		case font.WeightMedium:
			return PerfectConfidence
		case font.WeightSemiBold:
			return HighConfidence
		case font.WeightNormal, font.WeightBold:
			return LowConfidence
		}
		return NoConfidence
	case "bold", "700":
		switch weight {
		case font.WeightBold:
			return PerfectConfidence
		case font.WeightSemiBold, font.WeightExtraBold:
			return HighConfidence
		}
		return NoConfidence
	case "extrabold", "600", "800", "900":
		switch weight {
		case font.WeightExtraBold, font.WeightBlack:
			return PerfectConfidence
		case font.WeightSemiBold:
			return LowConfidence
		case font.WeightBold:
			return HighConfidence
		}
		return NoConfidence
	}
	return NoConfidence
}
