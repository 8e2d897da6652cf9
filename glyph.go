package fontatlas

import "image"

// TexRect is a rectangle in normalized texture coordinates [0, 1].
type TexRect struct {
	Left, Top, Right, Bottom float32
}

// Glyph describes one rasterized code point inside a page.
type Glyph struct {
	// Rune is the code point.
	Rune rune

	// Bearing is the offset from the pen position to the top-left corner of
	// the bitmap: X to the right, Y upward from the baseline.
	Bearing image.Point

	// Size is the bitmap width and height in pixels.
	Size image.Point

	// Image is the glyph rectangle in atlas pixels, padding excluded.
	Image image.Rectangle

	// Tex is the texture rectangle used as UV coordinates.
	//
	// It is Image moved left and up by the page padding, keeping its width
	// and height, normalized by the current canvas size. The right and
	// bottom edges therefore stop short of the glyph by the padding.
	// This asymmetry is kept as is; renderers relying on it sample the
	// left and top bleed border instead of the right and bottom.
	//
	// Tex is recomputed when the page grows, so a Glyph copied out earlier
	// (GetGlyph, GetGlyphs) holds stale coordinates after growth.
	Tex TexRect

	// Advance is the horizontal pen step in pixels.
	Advance float32
}

// Image is a view of a page canvas: single channel, row-major,
// stride equal to Width.
//
// An Image returned by Manager.GetImage or Page.Image borrows the page
// buffer. It is valid only until the next call that populates the same
// page: growth replaces the buffer and later placements write into it.
// Use Page.Snapshot for an owned copy.
type Image struct {
	Pix           []byte
	Width, Height int

	// Generation is the page generation the view was taken at.
	Generation uint64
}

// At returns the coverage value at (x, y).
func (im Image) At(x, y int) byte {
	return im.Pix[y*im.Width+x]
}

// Alpha wraps the pixels in an *image.Alpha without copying.
func (im Image) Alpha() *image.Alpha {
	return &image.Alpha{
		Pix:    im.Pix,
		Stride: im.Width,
		Rect:   image.Rect(0, 0, im.Width, im.Height),
	}
}
