/*
Package locate resolves symbolic font names to font files on the local
system.

Font names are given in the syntax of fontconfig, e.g.

    DejaVu Sans-12:bold:slant=italic

A Resolver maps such a name to the path of a font file, or to "" if no
font can be found. The resolver returned by NewSystemResolver tries, in
order: a name which already is a font file, the fonts packaged with this
module (the Go font family), fontconfig's 'fc-match', and finally a scan of
the platform's font folders with best-match scoring.

We call the fontconfig binaries instead of linking the C library because of
possible version issues. Their location may be configured with keys
'fc-match' and 'fc-list'; otherwise they are searched in $PATH.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package locate

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'platfont.locate'.
func tracer() tracing.Trace {
	return tracing.Select("platfont.locate")
}
