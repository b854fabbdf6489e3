package font

import (
	"strconv"
	"strings"

	"golang.org/x/image/font"
)

// Descriptor describes an installed font file.
type Descriptor struct {
	Family   string
	Path     string
	Variants []string
}

// Pattern is a parsed symbolic font name.
//
// Font names are written in the syntax of fontconfig:
//
//     <families>[-<point sizes>][:<name>=<value>…]
//
// e.g. "Times,serif-12:bold:slant=italic". Bare constants like "bold" or
// "italic" are accepted in place of name=value pairs.
type Pattern struct {
	Families   []string
	Size       float64
	Style      font.Style
	Weight     font.Weight
	Properties map[string]string // properties not interpreted by us
}

// Family returns the first family of the pattern or "".
func (p Pattern) Family() string {
	if len(p.Families) == 0 {
		return ""
	}
	return p.Families[0]
}

// ParseDescriptor parses a fontconfig-style font name. It never fails;
// unknown parts are kept in Properties.
func ParseDescriptor(name string) Pattern {
	p := Pattern{
		Style:      font.StyleNormal,
		Weight:     font.WeightNormal,
		Properties: make(map[string]string),
	}
	parts := splitUnescaped(name, ':')
	if len(parts) == 0 {
		return p
	}
	head := parts[0]
	if dash := lastUnescaped(head, '-'); dash >= 0 {
		if sz, err := strconv.ParseFloat(strings.Split(head[dash+1:], ",")[0], 64); err == nil {
			p.Size = sz
			head = head[:dash]
		}
	}
	for _, fam := range splitUnescaped(head, ',') {
		if fam = strings.TrimSpace(unescape(fam)); fam != "" {
			p.Families = append(p.Families, fam)
		}
	}
	for _, prop := range parts[1:] {
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		key, value := prop, ""
		if eq := strings.IndexByte(prop, '='); eq >= 0 {
			key, value = strings.TrimSpace(prop[:eq]), strings.TrimSpace(unescape(prop[eq+1:]))
		}
		key = strings.ToLower(key)
		switch key {
		case "style":
			for _, tok := range strings.Fields(strings.ToLower(value)) {
				p.applyConstant(tok)
			}
		case "weight":
			if w, ok := weightFromString(value); ok {
				p.Weight = w
			}
		case "slant":
			if s, ok := slantFromString(value); ok {
				p.Style = s
			}
		case "size", "pixelsize":
			if sz, err := strconv.ParseFloat(value, 64); err == nil {
				p.Size = sz
			}
		default:
			if value == "" && p.applyConstant(key) {
				continue
			}
			p.Properties[key] = value
		}
	}
	tracer().Debugf("descriptor %q parsed to %v", name, p)
	return p
}

func (p *Pattern) applyConstant(c string) bool {
	if s, ok := slantFromString(c); ok {
		p.Style = s
		return true
	}
	if w, ok := weightFromString(c); ok {
		p.Weight = w
		return true
	}
	return false
}

func slantFromString(s string) (font.Style, bool) {
	switch strings.ToLower(s) {
	case "roman", "0":
		return font.StyleNormal, true
	case "italic", "100":
		return font.StyleItalic, true
	case "oblique", "110":
		return font.StyleOblique, true
	}
	return font.StyleNormal, false
}

func weightFromString(s string) (font.Weight, bool) {
	s = strings.ToLower(s)
	switch s {
	case "thin":
		return font.WeightThin, true
	case "extralight", "ultralight":
		return font.WeightExtraLight, true
	case "light", "demilight", "semilight":
		return font.WeightLight, true
	case "regular", "normal", "book":
		return font.WeightNormal, true
	case "medium":
		return font.WeightMedium, true
	case "semibold", "demibold":
		return font.WeightSemiBold, true
	case "bold":
		return font.WeightBold, true
	case "extrabold", "ultrabold":
		return font.WeightExtraBold, true
	case "black", "heavy":
		return font.WeightBlack, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return font.WeightNormal, false
	}
	// fontconfig numeric weights
	switch {
	case n < 20:
		return font.WeightThin, true
	case n < 45:
		return font.WeightExtraLight, true
	case n < 65:
		return font.WeightLight, true
	case n < 90:
		return font.WeightNormal, true
	case n < 140:
		return font.WeightMedium, true
	case n < 190:
		return font.WeightSemiBold, true
	case n < 203:
		return font.WeightBold, true
	case n < 208:
		return font.WeightExtraBold, true
	}
	return font.WeightBlack, true
}

// --- Helpers ---------------------------------------------------------------

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func lastUnescaped(s string, c byte) int {
	pos := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == c {
			pos = i
		}
	}
	return pos
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
