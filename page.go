package fontatlas

import (
	"fmt"
	"image"
	"sort"

	"github.com/gogpu/fontatlas/source"
)

// PageState is the population state of a page.
type PageState uint8

const (
	// PageUnloaded means the character set has not been rasterized yet.
	PageUnloaded PageState = iota

	// PageLoading means EnsurePage is rasterizing the character set.
	PageLoading

	// PageReady means the character set has been rasterized.
	PageReady
)

// String returns the state name.
func (s PageState) String() string {
	switch s {
	case PageUnloaded:
		return "Unloaded"
	case PageLoading:
		return "Loading"
	case PageReady:
		return "Ready"
	default:
		return fmt.Sprintf("PageState(%d)", s)
	}
}

// Page is a growable single-channel atlas holding the glyphs of one font
// at one pixel size.
//
// Page is NOT safe for concurrent use.
type Page struct {
	pixelSize int
	padding   int

	pix    []byte
	width  int
	height int

	packer *ShelfPacker
	glyphs map[rune]Glyph
	state  PageState

	// revision increments on every canvas write.
	revision uint64

	// generation increments every time the canvas is reallocated.
	generation uint64
}

// newPage creates an empty page with the configured initial size.
func newPage(pixelSize int, cfg *Config) *Page {
	size := cfg.InitialSize
	return &Page{
		pixelSize: pixelSize,
		padding:   cfg.Padding,
		pix:       make([]byte, size*size),
		width:     size,
		height:    size,
		packer:    NewShelfPacker(size, size, cfg.packerConfig()),
		glyphs:    make(map[rune]Glyph),
	}
}

// ensureGlyph rasterizes r with f and places it, unless it is cached.
// f must already be set to the page's pixel size.
//
// A glyph missing from the font returns an error wrapping
// source.ErrGlyphNotFound and leaves no record, so the next request tries
// again.
func (p *Page) ensureGlyph(f source.Font, r rune) error {
	if _, ok := p.glyphs[r]; ok {
		return nil
	}

	bm, err := f.Rasterize(r)
	if err != nil {
		return err
	}
	if !bm.Valid() {
		return fmt.Errorf("%w: %U is %dx%d with %d bytes", ErrInvalidBitmap, r, bm.Width, bm.Height, len(bm.Pix))
	}

	pad := p.padding
	cell, err := p.packer.Pack(bm.Width+2*pad, bm.Height+2*pad)
	if err != nil {
		return fmt.Errorf("fontatlas: place %U at %dpx: %w", r, p.pixelSize, err)
	}
	if w, h := p.packer.Size(); w != p.width || h != p.height {
		p.grow(w, h)
	}

	img := image.Rect(cell.Min.X+pad, cell.Min.Y+pad, cell.Min.X+pad+bm.Width, cell.Min.Y+pad+bm.Height)
	p.blit(bm, img)

	p.glyphs[r] = Glyph{
		Rune:    r,
		Bearing: image.Pt(bm.BearingX, bm.BearingY),
		Size:    image.Pt(bm.Width, bm.Height),
		Image:   img,
		Tex:     p.texRect(img),
		Advance: bm.Advance,
	}
	p.revision++

	Logger().Debug("fontatlas: glyph placed",
		"rune", string(r), "size", p.pixelSize, "rect", img)
	return nil
}

// blit copies the bitmap rows into the canvas at dst.
func (p *Page) blit(bm *source.Bitmap, dst image.Rectangle) {
	for y := 0; y < bm.Height; y++ {
		off := (dst.Min.Y+y)*p.width + dst.Min.X
		copy(p.pix[off:off+bm.Width], bm.Row(y))
	}
}

// grow reallocates the canvas at the new size, keeping every existing row
// at its original offset. Texture rectangles are renormalized.
func (p *Page) grow(width, height int) {
	pix := make([]byte, width*height)
	for y := 0; y < p.height; y++ {
		copy(pix[y*width:y*width+p.width], p.pix[y*p.width:(y+1)*p.width])
	}

	Logger().Debug("fontatlas: page grown",
		"size", p.pixelSize, "from", image.Pt(p.width, p.height), "to", image.Pt(width, height))

	p.pix = pix
	p.width = width
	p.height = height
	p.generation++
	p.revision++

	for r, g := range p.glyphs {
		g.Tex = p.texRect(g.Image)
		p.glyphs[r] = g
	}
}

// texRect derives the texture rectangle of an image rectangle: the left
// and top edges move out by the padding, width and height stay the same.
func (p *Page) texRect(img image.Rectangle) TexRect {
	w, h := float32(p.width), float32(p.height)
	left := img.Min.X - p.padding
	top := img.Min.Y - p.padding
	return TexRect{
		Left:   float32(left) / w,
		Top:    float32(top) / h,
		Right:  float32(left+img.Dx()) / w,
		Bottom: float32(top+img.Dy()) / h,
	}
}

// PixelSize returns the pixel size the page was created for.
func (p *Page) PixelSize() int {
	return p.pixelSize
}

// Size returns the canvas dimensions.
func (p *Page) Size() (width, height int) {
	return p.width, p.height
}

// State returns the population state.
func (p *Page) State() PageState {
	return p.state
}

// HasGlyph returns true if r is cached.
func (p *Page) HasGlyph(r rune) bool {
	_, ok := p.glyphs[r]
	return ok
}

// Glyph returns the cached glyph for r.
func (p *Page) Glyph(r rune) (Glyph, bool) {
	g, ok := p.glyphs[r]
	return g, ok
}

// Glyphs returns a copy of the glyph cache.
func (p *Page) Glyphs() map[rune]Glyph {
	out := make(map[rune]Glyph, len(p.glyphs))
	for r, g := range p.glyphs {
		out[r] = g
	}
	return out
}

// SortedGlyphs returns the cached glyphs ordered by code point.
func (p *Page) SortedGlyphs() []Glyph {
	out := make([]Glyph, 0, len(p.glyphs))
	for _, g := range p.glyphs {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rune < out[j].Rune })
	return out
}

// GlyphCount returns the number of cached glyphs.
func (p *Page) GlyphCount() int {
	return len(p.glyphs)
}

// Image returns a borrowed view of the canvas.
// See Image for the invalidation rule.
func (p *Page) Image() Image {
	return Image{Pix: p.pix, Width: p.width, Height: p.height, Generation: p.generation}
}

// Snapshot returns an owned copy of the canvas.
func (p *Page) Snapshot() Image {
	pix := make([]byte, len(p.pix))
	copy(pix, p.pix)
	return Image{Pix: pix, Width: p.width, Height: p.height, Generation: p.generation}
}

// Generation returns the number of times the canvas was reallocated.
func (p *Page) Generation() uint64 {
	return p.generation
}

// Revision returns a counter that increases whenever the canvas changes.
// Each uploader keeps the revision it last copied and compares, so any
// number of consumers can track the same page.
func (p *Page) Revision() uint64 {
	return p.revision
}

// ShelfCount returns the number of shelves in the page.
func (p *Page) ShelfCount() int {
	return p.packer.ShelfCount()
}

// Utilization returns the fraction of the canvas used by glyph cells.
func (p *Page) Utilization() float64 {
	return p.packer.Utilization()
}

// MemoryUsage returns the canvas size in bytes.
func (p *Page) MemoryUsage() int {
	return len(p.pix)
}
