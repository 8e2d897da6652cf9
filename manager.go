package fontatlas

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gogpu/fontatlas/source"
)

// Manager owns one open font and one Page per requested pixel size.
//
// Pages are created lazily by EnsurePage and EnsureGlyph and live until the
// font is replaced or the manager is closed. They only grow.
//
// Manager is NOT safe for concurrent use. Every call runs to completion on
// the calling goroutine.
type Manager struct {
	cfg    Config
	opener source.Opener

	font   source.Font
	family string
	path   string
	data   []byte

	pages map[int]*Page
}

// NewManager creates a manager with the given configuration.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultManagerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	opener := o.opener
	if opener == nil {
		var err error
		opener, err = source.Lookup(o.backend)
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		cfg:    cfg,
		opener: opener,
		pages:  make(map[int]*Page),
	}, nil
}

// NewManagerDefault creates a manager with default configuration and the
// default backend.
func NewManagerDefault() *Manager {
	m, _ := NewManager(DefaultConfig())
	return m
}

// LoadFont opens the font file at path, replacing the current font.
//
// On failure the returned error is a *FontOpenError and the manager keeps
// its previous font and pages. On success all pages of the previous font
// are discarded.
func (m *Manager) LoadFont(path string) error {
	// #nosec G304 -- Font file path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return &FontOpenError{Path: path, Err: err}
	}
	return m.load(path, data)
}

// LoadFontData opens a font from TTF or OTF data, replacing the current
// font. It behaves like LoadFont.
func (m *Manager) LoadFontData(data []byte) error {
	return m.load("", data)
}

func (m *Manager) load(path string, data []byte) error {
	f, err := m.opener.Open(data)
	if err != nil {
		return &FontOpenError{Path: path, Err: err}
	}

	if err := m.unload(); err != nil {
		Logger().Warn("fontatlas: closing previous font failed", "err", err)
	}

	m.font = f
	m.family = f.Family()
	m.path = path
	m.data = data

	Logger().Info("fontatlas: font loaded", "family", m.family, "path", path, "bytes", len(data))
	return nil
}

// unload closes the current font and discards all pages.
func (m *Manager) unload() error {
	m.pages = make(map[int]*Page)
	if m.font == nil {
		return nil
	}
	err := m.font.Close()
	m.font = nil
	m.family = ""
	m.path = ""
	m.data = nil
	return err
}

// Close closes the font and discards all pages.
// The manager can load another font afterwards.
func (m *Manager) Close() error {
	return m.unload()
}

// Loaded returns true if a font is loaded.
func (m *Manager) Loaded() bool {
	return m.font != nil
}

// FamilyName returns the family name of the loaded font.
func (m *Manager) FamilyName() string {
	return m.family
}

// Config returns the manager configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// page returns the page for pixelSize, creating it if absent.
func (m *Manager) page(pixelSize int) (*Page, error) {
	if m.font == nil {
		return nil, ErrNoFont
	}
	if pixelSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPixelSize, pixelSize)
	}
	p, ok := m.pages[pixelSize]
	if !ok {
		p = newPage(pixelSize, &m.cfg)
		m.pages[pixelSize] = p
	}
	return p, nil
}

// EnsurePage creates the page for pixelSize if needed and rasterizes every
// rune of the configured character set into it.
//
// Once a page is ready, further calls return immediately without
// rasterizing or growing anything. Runes missing from the font and glyphs
// the page cannot place are skipped with a warning; EnsureGlyph retries
// them individually. EnsurePage returns ErrNoGlyphs if
// the page ends up empty, in which case a later call starts over.
//
// Any Image previously returned for this page is invalid afterwards.
func (m *Manager) EnsurePage(pixelSize int) error {
	p, err := m.page(pixelSize)
	if err != nil {
		return err
	}
	if p.state == PageReady {
		return nil
	}
	if err := m.font.SetPixelSize(pixelSize); err != nil {
		return fmt.Errorf("fontatlas: set pixel size %d: %w", pixelSize, err)
	}

	p.state = PageLoading
	var missing, rejected []rune
	var firstReject error
	for _, r := range m.cfg.CharacterSet.Runes() {
		err := p.ensureGlyph(m.font, r)
		switch {
		case err == nil:
		case errors.Is(err, source.ErrGlyphNotFound):
			missing = append(missing, r)
		case errors.Is(err, ErrGlyphTooLarge), errors.Is(err, ErrAtlasFull), errors.Is(err, ErrInvalidBitmap):
			if firstReject == nil {
				firstReject = err
			}
			rejected = append(rejected, r)
		default:
			p.state = PageUnloaded
			return err
		}
	}

	if len(missing) > 0 {
		Logger().Warn("fontatlas: glyphs missing from font",
			"family", m.family, "size", pixelSize, "count", len(missing), "runes", string(missing))
	}
	if len(rejected) > 0 {
		Logger().Warn("fontatlas: glyphs not placed",
			"family", m.family, "size", pixelSize, "count", len(rejected), "runes", string(rejected),
			"err", firstReject)
	}

	if p.GlyphCount() == 0 {
		p.state = PageUnloaded
		return fmt.Errorf("%w: %s at %dpx", ErrNoGlyphs, m.family, pixelSize)
	}

	p.state = PageReady
	Logger().Info("fontatlas: page ready",
		"family", m.family, "size", pixelSize, "glyphs", p.GlyphCount(),
		"width", p.width, "height", p.height, "shelves", p.ShelfCount())
	return nil
}

// EnsureGlyph rasterizes a single rune into the page for pixelSize,
// creating the page if needed. It is a no-op for cached runes and the
// retry path for runes EnsurePage could not find.
//
// Any Image previously returned for this page is invalid afterwards.
func (m *Manager) EnsureGlyph(r rune, pixelSize int) error {
	p, err := m.page(pixelSize)
	if err != nil {
		return err
	}
	if p.HasGlyph(r) {
		return nil
	}
	if err := m.font.SetPixelSize(pixelSize); err != nil {
		return fmt.Errorf("fontatlas: set pixel size %d: %w", pixelSize, err)
	}
	return p.ensureGlyph(m.font, r)
}

// Page returns the page for pixelSize, if it exists.
func (m *Manager) Page(pixelSize int) (*Page, bool) {
	p, ok := m.pages[pixelSize]
	return p, ok
}

// Pages returns all pages ordered by pixel size.
func (m *Manager) Pages() []*Page {
	pages := make([]*Page, 0, len(m.pages))
	for _, p := range m.pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].pixelSize < pages[j].pixelSize })
	return pages
}

// GetImage returns a borrowed view of the canvas for pixelSize.
// The view is valid only until the next EnsurePage or EnsureGlyph call for
// the same pixel size.
func (m *Manager) GetImage(pixelSize int) (Image, error) {
	p, ok := m.pages[pixelSize]
	if !ok {
		return Image{}, fmt.Errorf("%w: %d", ErrNoPage, pixelSize)
	}
	return p.Image(), nil
}

// GetGlyph returns the glyph for r at pixelSize.
func (m *Manager) GetGlyph(r rune, pixelSize int) (Glyph, bool) {
	p, ok := m.pages[pixelSize]
	if !ok {
		return Glyph{}, false
	}
	return p.Glyph(r)
}

// GetGlyphs returns a copy of the glyph cache for pixelSize, or nil if the
// page does not exist.
func (m *Manager) GetGlyphs(pixelSize int) map[rune]Glyph {
	p, ok := m.pages[pixelSize]
	if !ok {
		return nil
	}
	return p.Glyphs()
}

// HasGlyph returns true if r is cached at pixelSize.
func (m *Manager) HasGlyph(r rune, pixelSize int) bool {
	p, ok := m.pages[pixelSize]
	return ok && p.HasGlyph(r)
}

// Coverage returns the runes of the character set the loaded font does not
// provide.
func (m *Manager) Coverage() ([]rune, error) {
	if m.font == nil {
		return nil, ErrNoFont
	}
	return source.Coverage(m.data, m.cfg.CharacterSet.Runes())
}

// Stats summarizes the manager's pages.
type Stats struct {
	Pages       int
	Glyphs      int
	MemoryBytes int64
	Grows       int
}

// Stats returns page statistics.
func (m *Manager) Stats() Stats {
	var s Stats
	for _, p := range m.pages {
		s.Pages++
		s.Glyphs += p.GlyphCount()
		s.MemoryBytes += int64(p.MemoryUsage())
		s.Grows += p.packer.Grows()
	}
	return s
}
