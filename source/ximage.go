package source

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fontatlas/internal/lru"
)

// maxFaces bounds the number of pixel sizes kept open per font.
const maxFaces = 8

// ximageOpener implements Opener using golang.org/x/image/font/opentype.
type ximageOpener struct{}

// Open implements Opener.Open.
func (ximageOpener) Open(data []byte) (Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("source: failed to parse font: %w", err)
	}
	return &ximageFont{
		font:   f,
		family: familyName(f),
		faces: lru.New[int, font.Face](maxFaces, func(_ int, face font.Face) {
			_ = face.Close()
		}),
	}, nil
}

// ximageFont implements Font on top of an opentype face per pixel size.
// Recently used faces stay open so switching between a few sizes does not
// rebuild them.
type ximageFont struct {
	font   *opentype.Font
	family string
	faces  *lru.LRU[int, font.Face]

	face      font.Face
	pixelSize int

	buf    sfnt.Buffer
	closed bool
}

// Family implements Font.Family.
func (f *ximageFont) Family() string { return f.family }

// SetPixelSize implements Font.SetPixelSize.
func (f *ximageFont) SetPixelSize(px int) error {
	if f.closed {
		return ErrFontClosed
	}
	if px <= 0 {
		return fmt.Errorf("source: invalid pixel size %d", px)
	}
	if f.face != nil && f.pixelSize == px {
		return nil
	}
	if face, ok := f.faces.Get(px); ok {
		f.face = face
		f.pixelSize = px
		return nil
	}

	// DPI 72 makes Size equal to pixels per em.
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("source: failed to create face at %dpx: %w", px, err)
	}
	f.faces.Add(px, face)
	f.face = face
	f.pixelSize = px
	return nil
}

// Rasterize implements Font.Rasterize.
func (f *ximageFont) Rasterize(r rune) (*Bitmap, error) {
	if f.closed {
		return nil, ErrFontClosed
	}
	if f.face == nil {
		return nil, ErrNoPixelSize
	}

	// Glyph index 0 is .notdef: the font has no mapping for r.
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return nil, fmt.Errorf("%w: %U", ErrGlyphNotFound, r)
	}

	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, fmt.Errorf("%w: %U", ErrGlyphNotFound, r)
	}

	bm := &Bitmap{
		Width:    dr.Dx(),
		Height:   dr.Dy(),
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Advance:  fixedToFloat32(advance),
	}
	if dr.Empty() || mask == nil {
		bm.Width, bm.Height = 0, 0
		return bm, nil
	}

	// The face reuses its mask between calls, so copy it out.
	dst := image.NewAlpha(image.Rect(0, 0, bm.Width, bm.Height))
	draw.Draw(dst, dst.Bounds(), mask, maskp, draw.Src)
	bm.Pix = dst.Pix
	bm.Stride = dst.Stride
	return bm, nil
}

// Close implements Font.Close.
func (f *ximageFont) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.face = nil
	f.faces.Clear()
	return nil
}

// familyName extracts the family name, falling back to the full name.
func familyName(f *opentype.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return ""
}

// fixedToFloat32 converts fixed.Int26_6 to float32.
func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64.0
}
