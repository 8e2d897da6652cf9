package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/runenames"

	"github.com/gogpu/fontatlas"
)

// options holds the parsed command line.
type options struct {
	fontPath string
	sizes    []int
	outDir   string
	chars    string
	growth   fontatlas.GrowthPolicy
	initial  int
}

// glyphEntry is one row of the JSON glyph table.
type glyphEntry struct {
	Rune     string     `json:"rune"`
	Char     string     `json:"char"`
	Name     string     `json:"name"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	BearingX int        `json:"bearing_x"`
	BearingY int        `json:"bearing_y"`
	Advance  float32    `json:"advance"`
	Tex      [4]float32 `json:"tex"`
}

// pageTable is the JSON document written next to each page image.
type pageTable struct {
	Family    string       `json:"family"`
	PixelSize int          `json:"pixel_size"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Padding   int          `json:"padding"`
	Glyphs    []glyphEntry `json:"glyphs"`
}

// pageSummary describes one written page.
type pageSummary struct {
	size          int
	width, height int
	glyphs        int
	shelves       int
	utilization   float64
	image, table  string
}

// report is what run produced.
type report struct {
	family  string
	pages   []pageSummary
	missing []rune
	scripts map[string]int
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("size %d must be positive", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}

func parseGrowth(s string) (fontatlas.GrowthPolicy, error) {
	switch s {
	case "once":
		return fontatlas.GrowOnce, nil
	case "fit":
		return fontatlas.GrowUntilFits, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

// run loads the font, populates one page per size and writes the outputs.
func run(opts options) (*report, error) {
	cfg := fontatlas.DefaultConfig()
	if opts.chars != "" {
		cfg.CharacterSet = cfg.CharacterSet.Union(fontatlas.CharacterSetFromString(opts.chars))
	}
	cfg.Growth = opts.growth
	if opts.initial > 0 {
		cfg.InitialSize = opts.initial
	}

	m, err := fontatlas.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = m.Close() }()

	if opts.fontPath == "" {
		err = m.LoadFontData(goregular.TTF)
	} else {
		err = m.LoadFont(opts.fontPath)
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.outDir, 0o750); err != nil {
		return nil, err
	}

	rep := &report{family: m.FamilyName(), scripts: make(map[string]int)}
	for script, n := range cfg.CharacterSet.Scripts() {
		rep.scripts[script.String()] += n
	}
	if rep.missing, err = m.Coverage(); err != nil {
		return nil, err
	}

	for _, size := range opts.sizes {
		if err := m.EnsurePage(size); err != nil {
			return nil, fmt.Errorf("page %dpx: %w", size, err)
		}
		p, _ := m.Page(size)
		summary, err := writePage(opts.outDir, m.FamilyName(), cfg.Padding, p)
		if err != nil {
			return nil, err
		}
		rep.pages = append(rep.pages, summary)
	}
	return rep, nil
}

// writePage writes page_<size>.png and page_<size>.json.
func writePage(dir, family string, padding int, p *fontatlas.Page) (pageSummary, error) {
	size := p.PixelSize()
	img := p.Snapshot()
	s := pageSummary{
		size:        size,
		width:       img.Width,
		height:      img.Height,
		glyphs:      p.GlyphCount(),
		shelves:     p.ShelfCount(),
		utilization: p.Utilization(),
		image:       filepath.Join(dir, fmt.Sprintf("page_%d.png", size)),
		table:       filepath.Join(dir, fmt.Sprintf("page_%d.json", size)),
	}

	f, err := os.Create(s.image)
	if err != nil {
		return s, err
	}
	if err := png.Encode(f, img.Alpha()); err != nil {
		_ = f.Close()
		return s, fmt.Errorf("encode %s: %w", s.image, err)
	}
	if err := f.Close(); err != nil {
		return s, err
	}

	table := pageTable{
		Family:    family,
		PixelSize: size,
		Width:     img.Width,
		Height:    img.Height,
		Padding:   padding,
		Glyphs:    make([]glyphEntry, 0, p.GlyphCount()),
	}
	for _, g := range p.SortedGlyphs() {
		table.Glyphs = append(table.Glyphs, glyphEntry{
			Rune:     fmt.Sprintf("%U", g.Rune),
			Char:     string(g.Rune),
			Name:     runenames.Name(g.Rune),
			X:        g.Image.Min.X,
			Y:        g.Image.Min.Y,
			Width:    g.Size.X,
			Height:   g.Size.Y,
			BearingX: g.Bearing.X,
			BearingY: g.Bearing.Y,
			Advance:  g.Advance,
			Tex:      [4]float32{g.Tex.Left, g.Tex.Top, g.Tex.Right, g.Tex.Bottom},
		})
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return s, err
	}
	if err := os.WriteFile(s.table, data, 0o600); err != nil {
		return s, err
	}
	return s, nil
}

func (r *report) print(w io.Writer) {
	fmt.Fprintf(w, "font: %s\n", r.family)

	scripts := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		scripts = append(scripts, name)
	}
	sort.Strings(scripts)
	for _, name := range scripts {
		fmt.Fprintf(w, "  script %-10s %4d runes\n", name, r.scripts[name])
	}

	if len(r.missing) > 0 {
		fmt.Fprintf(w, "missing %d glyphs:\n", len(r.missing))
		for _, rn := range r.missing {
			fmt.Fprintf(w, "  %U %s\n", rn, runenames.Name(rn))
		}
	}

	for _, p := range r.pages {
		fmt.Fprintf(w, "%3dpx: %dx%d, %d glyphs, %d shelves, %.1f%% used -> %s, %s\n",
			p.size, p.width, p.height, p.glyphs, p.shelves, p.utilization*100, p.image, p.table)
	}
}
