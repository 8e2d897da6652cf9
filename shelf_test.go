package fontatlas

import (
	"errors"
	"image"
	"math/rand"
	"testing"
)

func newTestPacker(cfg PackerConfig) *ShelfPacker {
	if cfg.MinRatio == 0 {
		cfg.MinRatio, cfg.MaxRatio = 0.7, 1.0
	}
	return NewShelfPacker(128, 128, cfg)
}

func mustPack(t *testing.T, p *ShelfPacker, w, h int) image.Rectangle {
	t.Helper()
	r, err := p.Pack(w, h)
	if err != nil {
		t.Fatalf("Pack(%d, %d) = %v", w, h, err)
	}
	return r
}

func TestShelfPacker_SimilarHeightsShareShelf(t *testing.T) {
	p := newTestPacker(PackerConfig{})

	a := mustPack(t, p, 10, 20)
	if a != image.Rect(0, 0, 10, 20) {
		t.Errorf("first rect = %v, want (0,0)-(10,20)", a)
	}

	// 21/22 is within [0.7, 1.0].
	b := mustPack(t, p, 10, 21)
	if b != image.Rect(10, 0, 20, 21) {
		t.Errorf("second rect = %v, want (10,0)-(20,21)", b)
	}
	if p.ShelfCount() != 1 {
		t.Errorf("ShelfCount() = %d, want 1", p.ShelfCount())
	}

	// 10/22 is below 0.7: new shelf under the first one (20 + 10%).
	c := mustPack(t, p, 10, 10)
	if c.Min.Y != 22 || c.Min.X != 0 {
		t.Errorf("third rect = %v, want a new shelf at y=22", c)
	}
	if p.ShelfCount() != 2 {
		t.Errorf("ShelfCount() = %d, want 2", p.ShelfCount())
	}
}

func TestShelfPacker_HighestRatioWins(t *testing.T) {
	p := newTestPacker(PackerConfig{})

	mustPack(t, p, 10, 20) // shelf A: top 0, height 22
	mustPack(t, p, 10, 23) // 23/22 > 1: shelf B, top 22, height 25

	// A: 21/22 = 0.95, B: 21/25 = 0.84.
	if r := mustPack(t, p, 5, 21); r.Min.Y != 0 {
		t.Errorf("height 21 placed at y=%d, want shelf A (y=0)", r.Min.Y)
	}
	// A rejects (ratio > 1), B: 25/25 = 1.0.
	if r := mustPack(t, p, 5, 25); r.Min.Y != 22 {
		t.Errorf("height 25 placed at y=%d, want shelf B (y=22)", r.Min.Y)
	}
}

func TestShelfPacker_FirstShelfWinsTies(t *testing.T) {
	p := newTestPacker(PackerConfig{})

	mustPack(t, p, 120, 20) // shelf A, 8 pixels left
	if r := mustPack(t, p, 20, 20); r.Min.Y != 22 {
		t.Fatalf("wide rect placed at y=%d, want new shelf at 22", r.Min.Y)
	}

	// Both shelves have height 22; A still has room for 5.
	if r := mustPack(t, p, 5, 20); r.Min != image.Pt(120, 0) {
		t.Errorf("tie placed at %v, want (120,0) on shelf A", r.Min)
	}
}

func TestShelfPacker_WideGlyphGrowsOnce(t *testing.T) {
	p := newTestPacker(PackerConfig{})

	r := mustPack(t, p, 130, 20)
	w, h := p.Size()
	if w != 256 || h != 256 {
		t.Errorf("Size() = %dx%d, want 256x256", w, h)
	}
	if p.Grows() != 1 {
		t.Errorf("Grows() = %d, want 1", p.Grows())
	}
	if r != image.Rect(0, 0, 130, 20) {
		t.Errorf("rect = %v, want (0,0)-(130,20)", r)
	}
}

func TestShelfPacker_TallShelfGrows(t *testing.T) {
	p := newTestPacker(PackerConfig{})

	mustPack(t, p, 10, 100) // shelf height 110
	r := mustPack(t, p, 10, 50)
	if r.Min.Y != 110 {
		t.Errorf("rect at y=%d, want 110", r.Min.Y)
	}
	if w, h := p.Size(); w != 256 || h != 256 {
		t.Errorf("Size() = %dx%d, want 256x256", w, h)
	}
}

func TestShelfPacker_GrowthLimits(t *testing.T) {
	tests := []struct {
		name      string
		cfg       PackerConfig
		w, h      int
		wantErr   error
		wantSize  int
		wantGrows int
	}{
		{"grow once too large", PackerConfig{Growth: GrowOnce}, 300, 10, ErrGlyphTooLarge, 128, 0},
		{"grow until fits", PackerConfig{Growth: GrowUntilFits}, 300, 10, nil, 512, 2},
		{"max size", PackerConfig{Growth: GrowOnce, MaxSize: 128}, 130, 10, ErrAtlasFull, 128, 0},
		{"max size until fits", PackerConfig{Growth: GrowUntilFits, MaxSize: 256}, 300, 10, ErrAtlasFull, 128, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPacker(tt.cfg)
			_, err := p.Pack(tt.w, tt.h)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Pack() = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Pack() error = %v, want %v", err, tt.wantErr)
			}
			if w, h := p.Size(); w != tt.wantSize || h != tt.wantSize {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantSize, tt.wantSize)
			}
			if p.Grows() != tt.wantGrows {
				t.Errorf("Grows() = %d, want %d", p.Grows(), tt.wantGrows)
			}
			if tt.wantErr != nil && p.ShelfCount() != 0 {
				t.Errorf("failed Pack left %d shelves", p.ShelfCount())
			}
		})
	}
}

func TestShelfPacker_ZeroSize(t *testing.T) {
	p := newTestPacker(PackerConfig{})

	r, err := p.Pack(0, 10)
	if err != nil {
		t.Fatalf("Pack(0, 10) = %v", err)
	}
	if !r.Empty() {
		t.Errorf("rect = %v, want empty", r)
	}
	if p.ShelfCount() != 0 {
		t.Errorf("ShelfCount() = %d, want 0", p.ShelfCount())
	}
	if _, err := p.Pack(-1, 5); err == nil {
		t.Error("Pack(-1, 5) succeeded, want error")
	}
}

func TestShelfPacker_Utilization(t *testing.T) {
	p := newTestPacker(PackerConfig{})
	if p.Utilization() != 0 {
		t.Errorf("initial Utilization() = %f, want 0", p.Utilization())
	}
	mustPack(t, p, 64, 64)
	if got := p.Utilization(); got != 0.25 {
		t.Errorf("Utilization() = %f, want 0.25", got)
	}
	if p.UsedArea() != 64*64 {
		t.Errorf("UsedArea() = %d, want %d", p.UsedArea(), 64*64)
	}
	if p.RemainingHeight() != 128-70 {
		t.Errorf("RemainingHeight() = %d, want %d", p.RemainingHeight(), 128-70)
	}
}

func TestShelfPacker_NoOverlap(t *testing.T) {
	p := newTestPacker(PackerConfig{Growth: GrowUntilFits})
	rng := rand.New(rand.NewSource(1))

	var rects []image.Rectangle
	for i := 0; i < 500; i++ {
		w := 2 + rng.Intn(40)
		h := 2 + rng.Intn(40)
		rects = append(rects, mustPack(t, p, w, h))
	}

	w, h := p.Size()
	canvas := image.Rect(0, 0, w, h)
	for i, a := range rects {
		if !a.In(canvas) {
			t.Fatalf("rect %d %v outside canvas %v", i, a, canvas)
		}
		for j := i + 1; j < len(rects); j++ {
			if a.Overlaps(rects[j]) {
				t.Fatalf("rect %d %v overlaps rect %d %v", i, a, j, rects[j])
			}
		}
	}
	if w&(w-1) != 0 || w != h {
		t.Errorf("Size() = %dx%d, want square power of two", w, h)
	}
}

func TestShelfPacker_Deterministic(t *testing.T) {
	run := func() []image.Rectangle {
		p := newTestPacker(PackerConfig{Growth: GrowUntilFits})
		rng := rand.New(rand.NewSource(7))
		out := make([]image.Rectangle, 0, 100)
		for i := 0; i < 100; i++ {
			r, _ := p.Pack(1+rng.Intn(30), 1+rng.Intn(30))
			out = append(out, r)
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rect %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
