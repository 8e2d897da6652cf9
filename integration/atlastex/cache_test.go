// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlastex

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/fontatlas"
)

// mockTexture implements the texture interfaces for testing.
type mockTexture struct {
	width         int
	height        int
	data          []byte
	destroyed     bool
	updated       int
	premultiplied bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy()                { m.destroyed = true }
func (m *mockTexture) SetPremultiplied(b bool) { m.premultiplied = b }

// mockCreator implements gpucontext.TextureCreator and TextureDrawer.
type mockCreator struct {
	textures []*mockTexture
	failNext bool
	drawn    []gpucontext.Texture
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

func (m *mockCreator) DrawTexture(tex gpucontext.Texture, _, _ float32) error {
	m.drawn = append(m.drawn, tex)
	return nil
}

func (m *mockCreator) TextureCreator() gpucontext.TextureCreator { return m }

func newPage(t *testing.T, initialSize, pixelSize int) (*fontatlas.Manager, *fontatlas.Page) {
	t.Helper()
	cfg := fontatlas.DefaultConfig()
	cfg.CharacterSet = fontatlas.CharacterSetFromString("ab")
	cfg.InitialSize = initialSize
	m, err := fontatlas.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	if err := m.LoadFontData(goregular.TTF); err != nil {
		t.Fatalf("LoadFontData() = %v", err)
	}
	if err := m.EnsurePage(pixelSize); err != nil {
		t.Fatalf("EnsurePage() = %v", err)
	}
	p, _ := m.Page(pixelSize)
	return m, p
}

func TestNew(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilCreator) {
		t.Errorf("New(nil) = %v, want ErrNilCreator", err)
	}
	if _, err := FromDrawer(nil); !errors.Is(err, ErrNilCreator) {
		t.Errorf("FromDrawer(nil) = %v, want ErrNilCreator", err)
	}
	if _, err := FromDrawer(&mockCreator{}); err != nil {
		t.Errorf("FromDrawer() = %v", err)
	}
}

func TestCacheTexture(t *testing.T) {
	_, p := newPage(t, 128, 16)
	mc := &mockCreator{}
	c, _ := New(mc)
	defer c.Close()

	tex, err := c.Texture(p)
	if err != nil {
		t.Fatalf("Texture() = %v", err)
	}
	w, h := p.Size()
	if tex.Width() != w || tex.Height() != h {
		t.Errorf("texture %dx%d, want %dx%d", tex.Width(), tex.Height(), w, h)
	}
	mt := tex.(*mockTexture)
	if len(mt.data) != w*h*4 {
		t.Errorf("len(data) = %d, want %d", len(mt.data), w*h*4)
	}
	if !mt.premultiplied {
		t.Error("texture not marked premultiplied")
	}

	// Unchanged page: same texture, no upload.
	tex2, _ := c.Texture(p)
	if tex2 != tex || mt.updated != 0 || len(mc.textures) != 1 {
		t.Error("unchanged page caused an upload")
	}
}

func TestCacheTextureUpdatesInPlace(t *testing.T) {
	m, p := newPage(t, 128, 16)
	mc := &mockCreator{}
	c, _ := New(mc)
	defer c.Close()

	tex, _ := c.Texture(p)
	gen := p.Generation()
	if err := m.EnsureGlyph('c', 16); err != nil {
		t.Fatalf("EnsureGlyph() = %v", err)
	}
	if p.Generation() != gen {
		t.Skip("page grew; in-place update not exercised")
	}

	tex2, err := c.Texture(p)
	if err != nil {
		t.Fatalf("Texture() = %v", err)
	}
	if tex2 != tex {
		t.Error("texture recreated for an in-place update")
	}
	if tex.(*mockTexture).updated != 1 {
		t.Errorf("updated = %d, want 1", tex.(*mockTexture).updated)
	}
}

func TestCacheIndependentConsumers(t *testing.T) {
	m, p := newPage(t, 128, 16)
	first, _ := New(&mockCreator{})
	defer first.Close()
	second, _ := New(&mockCreator{})
	defer second.Close()

	tex1, _ := first.Texture(p)
	tex2, _ := second.Texture(p)
	gen := p.Generation()
	if err := m.EnsureGlyph('c', 16); err != nil {
		t.Fatalf("EnsureGlyph() = %v", err)
	}
	if p.Generation() != gen {
		t.Skip("page grew; in-place update not exercised")
	}

	// Refreshing one cache must not hide the change from the other.
	if _, err := first.Texture(p); err != nil {
		t.Fatalf("first.Texture() = %v", err)
	}
	if _, err := second.Texture(p); err != nil {
		t.Fatalf("second.Texture() = %v", err)
	}
	if got := tex1.(*mockTexture).updated; got != 1 {
		t.Errorf("first updated = %d, want 1", got)
	}
	if got := tex2.(*mockTexture).updated; got != 1 {
		t.Errorf("second updated = %d, want 1", got)
	}
}

func TestCacheTextureRecreatesOnGrowth(t *testing.T) {
	m, p := newPage(t, 16, 12)
	mc := &mockCreator{}
	c, _ := New(mc)
	defer c.Close()

	tex, _ := c.Texture(p)
	gen := p.Generation()
	for _, r := range "WMQABCDEFGHIJKLNOPRSTUVXYZ" {
		if err := m.EnsureGlyph(r, 12); err != nil {
			t.Fatalf("EnsureGlyph(%q) = %v", r, err)
		}
		if p.Generation() != gen {
			break
		}
	}
	if p.Generation() == gen {
		t.Fatal("page did not grow")
	}

	tex2, err := c.Texture(p)
	if err != nil {
		t.Fatalf("Texture() = %v", err)
	}
	if tex2 == tex {
		t.Fatal("texture not recreated after growth")
	}
	if !tex.(*mockTexture).destroyed {
		t.Error("old texture not destroyed")
	}
	w, _ := p.Size()
	if tex2.Width() != w {
		t.Errorf("Width() = %d, want %d", tex2.Width(), w)
	}
}

func TestCacheCreateFailure(t *testing.T) {
	_, p := newPage(t, 128, 16)
	mc := &mockCreator{failNext: true}
	c, _ := New(mc)

	if _, err := c.Texture(p); err == nil {
		t.Fatal("Texture() succeeded, want error")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failed upload, want 0", c.Len())
	}
	if _, err := c.Texture(p); err != nil {
		t.Fatalf("retry Texture() = %v", err)
	}
}

func TestCacheDrawPruneClose(t *testing.T) {
	m, p := newPage(t, 128, 16)
	mc := &mockCreator{}
	c, _ := FromDrawer(mc)

	if err := c.Draw(mc, p, 10, 20); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if len(mc.drawn) != 1 {
		t.Errorf("drawn = %d, want 1", len(mc.drawn))
	}

	c.Prune(m.Pages())
	if c.Len() != 1 {
		t.Errorf("Len() after Prune = %d, want 1", c.Len())
	}
	c.Prune(nil)
	if c.Len() != 0 || !mc.textures[0].destroyed {
		t.Error("Prune(nil) kept the texture")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if _, err := c.Texture(p); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Texture() after Close = %v, want ErrCacheClosed", err)
	}
}

func TestExpandRGBA(t *testing.T) {
	img := fontatlas.Image{Pix: []byte{0, 128, 255, 7}, Width: 2, Height: 2}
	out := ExpandRGBA(img)
	want := []byte{0, 0, 0, 0, 128, 128, 128, 128, 255, 255, 255, 255, 7, 7, 7, 7}
	if string(out) != string(want) {
		t.Errorf("ExpandRGBA() = %v, want %v", out, want)
	}
}
