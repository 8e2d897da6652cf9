package fontatlas

import (
	"image"
	"testing"

	"github.com/gogpu/fontatlas/source"
)

// fakeOpener produces fakeFonts with deterministic glyph geometry.
type fakeOpener struct {
	// sizes overrides the bitmap size of individual runes.
	sizes map[rune]image.Point
	// missing lists runes the font does not contain.
	missing map[rune]bool
	// bad lists runes rasterized with truncated pixel data.
	bad map[rune]bool
	// fail makes Open return an error.
	fail bool

	opened []*fakeFont
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		sizes:   make(map[rune]image.Point),
		missing: make(map[rune]bool),
		bad:     make(map[rune]bool),
	}
}

func (o *fakeOpener) Open(data []byte) (source.Font, error) {
	if o.fail || len(data) == 0 {
		return nil, source.ErrEmptyFontData
	}
	f := &fakeFont{opener: o, family: string(data)}
	o.opened = append(o.opened, f)
	return f, nil
}

// fakeFont rasterizes every rune as a solid block filled with fillByte(r).
type fakeFont struct {
	opener    *fakeOpener
	family    string
	pixelSize int
	calls     int
	closed    bool
}

func (f *fakeFont) Family() string { return f.family }

func (f *fakeFont) SetPixelSize(px int) error {
	f.pixelSize = px
	return nil
}

func (f *fakeFont) Rasterize(r rune) (*source.Bitmap, error) {
	f.calls++
	if f.opener.missing[r] {
		return nil, source.ErrGlyphNotFound
	}
	size, ok := f.opener.sizes[r]
	if !ok {
		// Heights vary a little per rune and scale with the pixel size.
		size = image.Pt(f.pixelSize/2+int(r)%5, f.pixelSize/2+int(r)%3)
	}
	pix := make([]byte, size.X*size.Y)
	for i := range pix {
		pix[i] = fillByte(r)
	}
	if f.opener.bad[r] {
		pix = pix[:len(pix)/2]
	}
	return &source.Bitmap{
		Width:    size.X,
		Height:   size.Y,
		Pix:      pix,
		BearingX: 1,
		BearingY: size.Y,
		Advance:  float32(size.X + 1),
	}, nil
}

func (f *fakeFont) Close() error {
	f.closed = true
	return nil
}

// fillByte is the coverage value a fakeFont writes for r. Never zero.
func fillByte(r rune) byte {
	return byte(r%250) + 1
}

// newTestManager creates a manager backed by op.
func newTestManager(t *testing.T, op source.Opener, cfg Config) *Manager {
	t.Helper()

	m, err := NewManager(cfg, WithOpener(op))
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// loadedManager creates a manager with a loaded fake font.
func loadedManager(t *testing.T, op *fakeOpener, cfg Config) *Manager {
	t.Helper()

	m := newTestManager(t, op, cfg)
	if err := m.LoadFontData([]byte("Fake")); err != nil {
		t.Fatalf("LoadFontData() = %v", err)
	}
	return m
}

// currentFont returns the most recently opened fake font.
func (o *fakeOpener) currentFont(t *testing.T) *fakeFont {
	t.Helper()
	if len(o.opened) == 0 {
		t.Fatal("no font opened")
	}
	return o.opened[len(o.opened)-1]
}

// checkPageInvariants verifies bounds and non-overlap of every glyph.
func checkPageInvariants(t *testing.T, p *Page) {
	t.Helper()

	img := p.Image()
	canvas := image.Rect(0, 0, img.Width, img.Height)
	glyphs := p.SortedGlyphs()
	for i, g := range glyphs {
		if !g.Image.In(canvas) {
			t.Errorf("%U: image rect %v outside canvas %v", g.Rune, g.Image, canvas)
		}
		padded := g.Image.Inset(-p.padding)
		if !g.Image.Empty() && !padded.In(canvas) {
			t.Errorf("%U: padded rect %v outside canvas %v", g.Rune, padded, canvas)
		}
		tex := g.Tex
		if tex.Left < 0 || tex.Left > tex.Right || tex.Right > 1 ||
			tex.Top < 0 || tex.Top > tex.Bottom || tex.Bottom > 1 {
			t.Errorf("%U: texture rect %+v out of [0,1]", g.Rune, tex)
		}
		for _, o := range glyphs[i+1:] {
			if g.Image.Overlaps(o.Image) {
				t.Errorf("%U %v overlaps %U %v", g.Rune, g.Image, o.Rune, o.Image)
			}
		}
	}
}
