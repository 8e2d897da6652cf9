package fontatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for fontatlas package.
var (
	// ErrFontOpen is matched by every *FontOpenError.
	ErrFontOpen = errors.New("fontatlas: failed to open font")

	// ErrNoFont is returned when an operation needs a font and none is loaded.
	ErrNoFont = errors.New("fontatlas: no font loaded")

	// ErrNoPage is returned when no page exists for the requested pixel size.
	ErrNoPage = errors.New("fontatlas: no page for pixel size")

	// ErrNoGlyphs is returned by EnsurePage when no glyph of the character
	// set could be rasterized.
	ErrNoGlyphs = errors.New("fontatlas: no glyphs rasterized")

	// ErrInvalidPixelSize is returned for non-positive pixel sizes.
	ErrInvalidPixelSize = errors.New("fontatlas: invalid pixel size")

	// ErrGlyphTooLarge is returned when a glyph does not fit even after the
	// growth allowed by the configured GrowthPolicy.
	ErrGlyphTooLarge = errors.New("fontatlas: glyph too large for atlas")

	// ErrAtlasFull is returned when growing would exceed Config.MaxSize.
	ErrAtlasFull = errors.New("fontatlas: atlas reached maximum size")

	// ErrInvalidBitmap is returned when a glyph source produces a bitmap
	// whose pixel data does not match its dimensions.
	ErrInvalidBitmap = errors.New("fontatlas: invalid glyph bitmap")
)

// FontOpenError is returned by LoadFont and LoadFontData when the font
// cannot be read or parsed. The manager keeps its previous state.
type FontOpenError struct {
	// Path is the font file path, empty for in-memory data.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *FontOpenError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fontatlas: failed to open font: %v", e.Err)
	}
	return fmt.Sprintf("fontatlas: failed to open font %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FontOpenError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFontOpen.
func (e *FontOpenError) Is(target error) bool { return target == ErrFontOpen }

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "fontatlas: invalid config." + e.Field + ": " + e.Reason
}
