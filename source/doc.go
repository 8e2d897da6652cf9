// Package source provides the glyph sources that feed a fontatlas.Manager.
//
// A glyph source opens a font file and rasterizes single code points into
// 8-bit coverage bitmaps with bearing and advance metrics. Packing those
// bitmaps into an atlas is the job of the parent package; this package only
// produces them.
//
// The default backend, "ximage", is built on golang.org/x/image/font/opentype.
// Custom backends can be registered:
//
//	source.Register("mybackend", myOpener)
//
//	m, err := fontatlas.NewManager(fontatlas.DefaultConfig(), fontatlas.WithBackend("mybackend"))
//
// Coverage reports which code points of a character set a font lacks. It
// parses the font independently with github.com/go-text/typesetting, so the
// answer does not depend on the rasterizing backend.
package source
