package source

import "errors"

// Sentinel errors for source package.
var (
	// ErrGlyphNotFound is returned by Font.Rasterize when the font has no
	// glyph for the requested code point.
	ErrGlyphNotFound = errors.New("source: glyph not found")

	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("source: empty font data")

	// ErrUnknownBackend is returned by Lookup for an unregistered backend name.
	ErrUnknownBackend = errors.New("source: unknown backend")

	// ErrNoPixelSize is returned by Font.Rasterize before SetPixelSize was called.
	ErrNoPixelSize = errors.New("source: pixel size not set")

	// ErrFontClosed is returned when operating on a closed font.
	ErrFontClosed = errors.New("source: font is closed")
)
