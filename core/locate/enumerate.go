package locate

import (
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
)

// InstalledFonts returns the sorted family names of all fonts installed on
// the system. Families are listed once, compared case-insensitively.
//
// The list is taken from fontconfig, if available, else from the file names
// found in the platform's font folders. The packaged fonts are always
// included.
func InstalledFonts(conf schuko.Configuration) []string {
	return installedFonts(NewFontConfig(conf))
}

func installedFonts(fc *FontConfig) []string {
	descs, ok := fc.List()
	if !ok || len(descs) == 0 {
		descs = scanFontFolders()
	}
	seen := make(map[string]bool, len(descs))
	families := make([]string, 0, len(descs)/2)
	add := func(family string) {
		key := squeeze(family)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		families = append(families, family)
	}
	for _, d := range descs {
		add(d.Family)
	}
	for _, pf := range packagedFonts {
		add(pf.family)
	}
	sort.Slice(families, func(i, j int) bool {
		fi, fj := strings.ToLower(families[i]), strings.ToLower(families[j])
		if fi == fj {
			return families[i] < families[j]
		}
		return fi < fj
	})
	return families
}

var systemFonts struct {
	once     sync.Once
	families []string
}

// SystemFonts is InstalledFonts for the global configuration. The list is
// computed once per process.
func SystemFonts() []string {
	systemFonts.once.Do(func() {
		systemFonts.families = InstalledFonts(GlobalConfiguration())
	})
	return systemFonts.families
}

// --- Global configuration --------------------------------------------------

type globalConf struct{}

func (globalConf) InitDefaults()               {}
func (globalConf) IsSet(key string) bool       { return gconf.IsSet(key) }
func (globalConf) GetString(key string) string { return gconf.GetString(key) }
func (globalConf) GetInt(key string) int       { return gconf.GetInt(key) }
func (globalConf) GetBool(key string) bool     { return gconf.GetBool(key) }
func (globalConf) IsInteractive() bool         { return gconf.IsInteractive() }

var _ schuko.Configuration = globalConf{}

// GlobalConfiguration returns a configuration delegating to the
// application-wide configuration of package gconf.
func GlobalConfiguration() schuko.Configuration {
	return globalConf{}
}
