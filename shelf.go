package fontatlas

import (
	"fmt"
	"image"
)

// PackerConfig holds ShelfPacker settings.
type PackerConfig struct {
	// MinRatio and MaxRatio bound height/shelfHeight for reusing a shelf.
	MinRatio, MaxRatio float64

	// Growth selects how far the canvas may grow per Pack call.
	Growth GrowthPolicy

	// MaxSize caps width and height. Zero means unlimited.
	MaxSize int
}

// shelf represents a horizontal strip in the atlas.
type shelf struct {
	top    int // Y position of shelf top
	used   int // Width consumed so far
	height int // Fixed at creation
}

// ShelfPacker implements shelf-based rectangle packing on a canvas that
// doubles in size when it runs out of room.
//
// A rectangle joins the existing shelf whose height it matches best, as long
// as height/shelfHeight lies within [MinRatio, MaxRatio] and the shelf has
// horizontal room. Otherwise a new shelf 10% taller than the rectangle is
// opened below the last one. Mixing very different heights on one shelf is
// avoided at the cost of packing density.
//
// ShelfPacker only tracks geometry. The owner of the pixel buffer must
// follow Size after every Pack call.
type ShelfPacker struct {
	width   int
	height  int
	cfg     PackerConfig
	shelves []shelf
	nextTop int // Next free vertical offset

	grows    int
	usedArea int
}

// NewShelfPacker creates a packer for a width x height canvas.
func NewShelfPacker(width, height int, cfg PackerConfig) *ShelfPacker {
	return &ShelfPacker{
		width:   width,
		height:  height,
		cfg:     cfg,
		shelves: make([]shelf, 0, 16),
	}
}

// Pack allocates a w x h rectangle, growing the canvas if needed.
//
// Zero-sized requests return an empty rectangle and allocate nothing.
// When the rectangle cannot be placed, Pack returns ErrGlyphTooLarge or
// ErrAtlasFull and leaves the packer unchanged.
func (p *ShelfPacker) Pack(w, h int) (image.Rectangle, error) {
	if w < 0 || h < 0 {
		return image.Rectangle{}, fmt.Errorf("fontatlas: invalid rectangle %dx%d", w, h)
	}
	if w == 0 || h == 0 {
		return image.Rectangle{}, nil
	}

	best := p.bestShelf(w, h)
	if best < 0 {
		shelfHeight := h + h/10
		if err := p.makeRoom(w, shelfHeight); err != nil {
			return image.Rectangle{}, err
		}
		p.shelves = append(p.shelves, shelf{top: p.nextTop, height: shelfHeight})
		p.nextTop += shelfHeight
		best = len(p.shelves) - 1
	}

	s := &p.shelves[best]
	r := image.Rect(s.used, s.top, s.used+w, s.top+h)
	s.used += w
	p.usedArea += w * h
	return r, nil
}

// bestShelf returns the index of the accepting shelf with the highest
// height ratio, or -1. The first shelf wins ties.
func (p *ShelfPacker) bestShelf(w, h int) int {
	best, bestRatio := -1, 0.0
	for i := range p.shelves {
		s := &p.shelves[i]
		ratio := float64(h) / float64(s.height)
		if ratio < p.cfg.MinRatio || ratio > p.cfg.MaxRatio {
			continue
		}
		if w > p.width-s.used {
			continue
		}
		if ratio > bestRatio {
			best, bestRatio = i, ratio
		}
	}
	return best
}

// makeRoom doubles the canvas until a new shelf of the given height and a
// rectangle of width w fit, within the limits of the growth policy.
func (p *ShelfPacker) makeRoom(w, shelfHeight int) error {
	nw, nh := p.width, p.height
	steps := 0
	for p.nextTop+shelfHeight > nh || w > nw {
		if steps == 1 && p.cfg.Growth == GrowOnce {
			return fmt.Errorf("%w: %dx%d after growing to %dx%d", ErrGlyphTooLarge, w, shelfHeight, nw, nh)
		}
		if p.cfg.MaxSize > 0 && (nw*2 > p.cfg.MaxSize || nh*2 > p.cfg.MaxSize) {
			return fmt.Errorf("%w: cannot grow %dx%d beyond %d", ErrAtlasFull, nw, nh, p.cfg.MaxSize)
		}
		nw, nh = nw*2, nh*2
		steps++
	}
	p.width, p.height = nw, nh
	p.grows += steps
	return nil
}

// Size returns the current canvas dimensions.
func (p *ShelfPacker) Size() (width, height int) {
	return p.width, p.height
}

// ShelfCount returns the number of shelves.
func (p *ShelfPacker) ShelfCount() int {
	return len(p.shelves)
}

// Grows returns how many times the canvas has doubled.
func (p *ShelfPacker) Grows() int {
	return p.grows
}

// UsedArea returns the total area of all packed rectangles.
func (p *ShelfPacker) UsedArea() int {
	return p.usedArea
}

// Utilization returns the fraction of the canvas covered by packed
// rectangles (0.0 to 1.0).
func (p *ShelfPacker) Utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}

// RemainingHeight returns the vertical space left below the last shelf.
func (p *ShelfPacker) RemainingHeight() int {
	return p.height - p.nextTop
}
