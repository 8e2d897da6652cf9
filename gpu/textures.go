//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fontatlas"
)

// pageTexture is the GPU copy of one page.
type pageTexture struct {
	texture hal.Texture
	view    hal.TextureView

	width, height int
	generation    uint64

	// revision is the page revision last uploaded.
	revision uint64
}

// PageTextures keeps one R8Unorm texture per page pixel size in sync with
// the CPU pages.
//
// PageTextures is NOT safe for concurrent use, matching fontatlas.Manager.
type PageTextures struct {
	device hal.Device
	queue  hal.Queue

	textures map[int]*pageTexture

	// created and uploads count texture allocations and page uploads.
	created int
	uploads int

	closed bool
}

// NewPageTextures creates an empty texture set on the given device.
func NewPageTextures(device hal.Device, queue hal.Queue) (*PageTextures, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	return &PageTextures{
		device:   device,
		queue:    queue,
		textures: make(map[int]*pageTexture),
	}, nil
}

// Sync uploads every page that changed since its last upload.
//
// A page whose canvas was reallocated since its last upload gets a new
// texture; the old texture and view are destroyed. Textures of pixel sizes
// not present in pages are destroyed as well, so passing Manager.Pages
// after a font change releases the previous font's textures.
func (t *PageTextures) Sync(pages []*fontatlas.Page) error {
	if t.closed {
		return ErrClosed
	}

	live := make(map[int]bool, len(pages))
	for _, p := range pages {
		live[p.PixelSize()] = true
		if err := t.syncPage(p); err != nil {
			return err
		}
	}

	for size, pt := range t.textures {
		if !live[size] {
			t.destroy(pt)
			delete(t.textures, size)
		}
	}
	return nil
}

func (t *PageTextures) syncPage(p *fontatlas.Page) error {
	size := p.PixelSize()
	pt := t.textures[size]
	w, h := p.Size()

	if pt != nil && pt.revision == p.Revision() && pt.generation == p.Generation() {
		return nil
	}

	if pt == nil || pt.width != w || pt.height != h || pt.generation != p.Generation() {
		if pt != nil {
			fontatlas.Logger().Debug("gpu: recreating page texture",
				"size", size, "from", pt.width, "to", w, "generation", p.Generation())
			t.destroy(pt)
			delete(t.textures, size)
		}
		var err error
		pt, err = t.create(size, w, h)
		if err != nil {
			return err
		}
		pt.generation = p.Generation()
		t.textures[size] = pt
	}

	img := p.Image()
	//nolint:gosec // page dimensions always fit uint32
	width, height := uint32(img.Width), uint32(img.Height)
	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  pt.texture,
			MipLevel: 0,
		},
		img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  width,
			RowsPerImage: height,
		},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("gpu: upload page %dpx: %w", size, err)
	}

	pt.revision = p.Revision()
	t.uploads++
	fontatlas.Logger().Debug("gpu: page uploaded",
		"size", size, "width", img.Width, "height", img.Height, "glyphs", p.GlyphCount())
	return nil
}

// create allocates a texture and view for a width x height page.
func (t *PageTextures) create(pixelSize, width, height int) (*pageTexture, error) {
	//nolint:gosec // page dimensions always fit uint32
	w, h := uint32(width), uint32(height)

	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("fontatlas_page_%d", pixelSize),
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create page texture %dpx: %w", pixelSize, err)
	}

	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("fontatlas_page_%d_view", pixelSize),
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create page texture view %dpx: %w", pixelSize, err)
	}

	t.created++
	return &pageTexture{texture: tex, view: view, width: width, height: height}, nil
}

func (t *PageTextures) destroy(pt *pageTexture) {
	if pt.view != nil {
		t.device.DestroyTextureView(pt.view)
	}
	if pt.texture != nil {
		t.device.DestroyTexture(pt.texture)
	}
}

// Texture returns the texture for pixelSize.
func (t *PageTextures) Texture(pixelSize int) (hal.Texture, bool) {
	pt, ok := t.textures[pixelSize]
	if !ok {
		return nil, false
	}
	return pt.texture, true
}

// View returns the texture view for pixelSize.
func (t *PageTextures) View(pixelSize int) (hal.TextureView, bool) {
	pt, ok := t.textures[pixelSize]
	if !ok {
		return nil, false
	}
	return pt.view, true
}

// Len returns the number of live textures.
func (t *PageTextures) Len() int {
	return len(t.textures)
}

// Uploads returns the number of page uploads performed.
func (t *PageTextures) Uploads() int {
	return t.uploads
}

// Close destroys all textures. Safe to call multiple times.
func (t *PageTextures) Close() {
	if t.closed {
		return
	}
	for size, pt := range t.textures {
		t.destroy(pt)
		delete(t.textures, size)
	}
	t.closed = true
}
