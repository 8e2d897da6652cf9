package source

import (
	"fmt"
	"sort"
)

// Bitmap is a rasterized glyph: an 8-bit coverage mask plus metrics.
type Bitmap struct {
	// Width and Height are the mask dimensions in pixels.
	// Both are zero for glyphs without ink, such as the space.
	Width, Height int

	// Stride is the distance in bytes between vertically adjacent pixels.
	// Zero means Width.
	Stride int

	// Pix holds coverage values, row-major, 0 = empty and 255 = fully covered.
	Pix []byte

	// BearingX is the horizontal offset from the pen position to the left
	// edge of the mask. BearingY is the distance from the baseline up to the
	// top edge of the mask (positive above the baseline).
	BearingX, BearingY int

	// Advance is the horizontal pen step in pixels.
	Advance float32
}

// RowStride returns the effective stride of the bitmap.
func (b *Bitmap) RowStride() int {
	if b.Stride > 0 {
		return b.Stride
	}
	return b.Width
}

// Row returns the coverage bytes of row y.
func (b *Bitmap) Row(y int) []byte {
	off := y * b.RowStride()
	return b.Pix[off : off+b.Width]
}

// Valid reports whether Pix is large enough for the declared dimensions.
func (b *Bitmap) Valid() bool {
	if b.Width < 0 || b.Height < 0 {
		return false
	}
	if b.Width == 0 || b.Height == 0 {
		return true
	}
	return len(b.Pix) >= (b.Height-1)*b.RowStride()+b.Width
}

// Font is an open font resource that rasterizes code points at one pixel
// size at a time.
//
// Font is not safe for concurrent use.
type Font interface {
	// Family returns the font family name, or an empty string.
	Family() string

	// SetPixelSize selects the pixel size (pixels per em) used by Rasterize.
	SetPixelSize(px int) error

	// Rasterize renders the code point at the current pixel size.
	// It returns an error wrapping ErrGlyphNotFound if the font has no
	// glyph for r.
	Rasterize(r rune) (*Bitmap, error)

	// Close releases resources held by the font.
	Close() error
}

// Opener opens fonts from TTF or OTF data.
type Opener interface {
	Open(data []byte) (Font, error)
}

// OpenerFunc adapts an ordinary function to the Opener interface.
type OpenerFunc func(data []byte) (Font, error)

// Open implements Opener.
func (f OpenerFunc) Open(data []byte) (Font, error) { return f(data) }

// DefaultBackend is the name of the default backend.
const DefaultBackend = "ximage"

// registry holds registered backends.
var registry = map[string]Opener{
	DefaultBackend: ximageOpener{},
}

// Register registers a backend under name, replacing any existing one.
// Register is meant to be called from init functions. It panics if o is nil.
func Register(name string, o Opener) {
	if o == nil {
		panic("source: Register opener is nil")
	}
	registry[name] = o
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Opener, error) {
	o, ok := registry[name]
	if !ok || o == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return o, nil
}

// Backends returns the names of all registered backends, sorted.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
