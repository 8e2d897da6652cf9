// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlastex

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fontatlas"
)

// Common errors returned by Cache operations.
var (
	// ErrNilCreator is returned when no texture creator is available.
	ErrNilCreator = errors.New("atlastex: nil TextureCreator")

	// ErrCacheClosed is returned when operations are attempted on a closed cache.
	ErrCacheClosed = errors.New("atlastex: cache is closed")

	// ErrNilPage is returned when a nil page is passed.
	ErrNilPage = errors.New("atlastex: nil page")
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// entry is the host texture of one page.
type entry struct {
	tex        gpucontext.Texture
	width      int
	height     int
	generation uint64
	revision   uint64
}

// Cache maps fontatlas pages to host textures, keyed by pixel size.
//
// Cache is NOT safe for concurrent use.
type Cache struct {
	creator gpucontext.TextureCreator
	entries map[int]*entry
	closed  bool
}

// New creates a cache that creates textures with creator.
func New(creator gpucontext.TextureCreator) (*Cache, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &Cache{
		creator: creator,
		entries: make(map[int]*entry),
	}, nil
}

// FromDrawer creates a cache using the drawer's texture creator.
func FromDrawer(dc gpucontext.TextureDrawer) (*Cache, error) {
	if dc == nil {
		return nil, ErrNilCreator
	}
	return New(dc.TextureCreator())
}

// Texture returns an up-to-date texture for p.
//
// A page unchanged since the last call returns its cached texture. A changed
// page of the same size and generation is uploaded through
// gpucontext.TextureUpdater when the texture supports it. Otherwise a new
// texture is created and the previous one destroyed.
func (c *Cache) Texture(p *fontatlas.Page) (gpucontext.Texture, error) {
	if c.closed {
		return nil, ErrCacheClosed
	}
	if p == nil {
		return nil, ErrNilPage
	}

	size := p.PixelSize()
	e := c.entries[size]
	img := p.Image()

	sameShape := e != nil && e.width == img.Width && e.height == img.Height && e.generation == img.Generation
	if sameShape && e.revision == p.Revision() {
		return e.tex, nil
	}

	data := ExpandRGBA(img)
	if sameShape {
		if updater, ok := e.tex.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return nil, fmt.Errorf("atlastex: texture update failed: %w", err)
			}
			e.revision = p.Revision()
			return e.tex, nil
		}
	}

	tex, err := c.creator.NewTextureFromRGBA(img.Width, img.Height, data)
	if err != nil {
		return nil, fmt.Errorf("atlastex: NewTextureFromRGBA failed: %w", err)
	}
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}

	// NewTextureFromRGBA waits for the upload, so the old texture is idle.
	if e != nil {
		destroy(e.tex)
	}
	c.entries[size] = &entry{
		tex:        tex,
		width:      img.Width,
		height:     img.Height,
		generation: img.Generation,
		revision:   p.Revision(),
	}

	fontatlas.Logger().Debug("atlastex: page texture created",
		"size", size, "width", img.Width, "height", img.Height, "generation", img.Generation)
	return tex, nil
}

// Draw draws the whole page texture at (x, y). It is mostly useful for
// inspecting an atlas.
func (c *Cache) Draw(dc gpucontext.TextureDrawer, p *fontatlas.Page, x, y float32) error {
	tex, err := c.Texture(p)
	if err != nil {
		return err
	}
	return dc.DrawTexture(tex, x, y)
}

// Prune destroys the textures of pixel sizes not present in pages.
func (c *Cache) Prune(pages []*fontatlas.Page) {
	live := make(map[int]bool, len(pages))
	for _, p := range pages {
		live[p.PixelSize()] = true
	}
	for size, e := range c.entries {
		if !live[size] {
			destroy(e.tex)
			delete(c.entries, size)
		}
	}
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Close destroys all textures.
// Close is idempotent - multiple calls are safe.
func (c *Cache) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for size, e := range c.entries {
		destroy(e.tex)
		delete(c.entries, size)
	}
	c.creator = nil
	return nil
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// ExpandRGBA converts single-channel coverage to premultiplied white RGBA.
func ExpandRGBA(img fontatlas.Image) []byte {
	n := img.Width * img.Height
	out := make([]byte, n*4)
	for i, a := range img.Pix[:n] {
		j := i * 4
		out[j+0] = a
		out[j+1] = a
		out[j+2] = a
		out[j+3] = a
	}
	return out
}
