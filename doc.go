// Package fontatlas packs rasterized font glyphs into growable texture
// atlases, one atlas page per pixel size.
//
// The package is organized in three layers:
//
//   - ShelfPacker: allocates rectangles in a canvas that doubles in size
//     when it runs out of room
//   - Page: one single-channel canvas plus a rune to Glyph cache for one
//     pixel size
//   - Manager: owns the open font and the pages, and serves glyph queries
//
// Rasterization itself is delegated to a glyph source (see package source).
//
// # Example usage
//
//	m, err := fontatlas.NewManager(fontatlas.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	if err := m.LoadFont("DejaVuSans.ttf"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.EnsurePage(24); err != nil {
//	    log.Fatal(err)
//	}
//
//	img, _ := m.GetImage(24)         // upload img.Pix as an R8 texture
//	g, ok := m.GetGlyph('Ж', 24)     // g.Tex holds the UV rectangle
//
// # Image lifetime
//
// GetImage returns a view that borrows the page buffer. Growing a page
// replaces its buffer, so a view is valid only until the next EnsurePage or
// EnsureGlyph call on the same pixel size. Page.Snapshot returns an owned
// copy, and Image.Generation tells whether a view predates a growth.
//
// # Character set
//
// EnsurePage rasterizes the CharacterSet given in Config. Runes outside it
// are only rasterized on demand through EnsureGlyph.
//
// # Concurrency
//
// Manager and Page are not safe for concurrent use. All operations are
// synchronous.
package fontatlas
