package fontatlas

import "github.com/gogpu/fontatlas/source"

// GrowthPolicy controls how far a page may grow to fit one glyph.
type GrowthPolicy uint8

const (
	// GrowOnce doubles the canvas at most once per insertion. A glyph that
	// still does not fit fails with ErrGlyphTooLarge.
	GrowOnce GrowthPolicy = iota

	// GrowUntilFits keeps doubling until the glyph fits or MaxSize is reached.
	GrowUntilFits
)

// String returns the policy name.
func (g GrowthPolicy) String() string {
	switch g {
	case GrowOnce:
		return "GrowOnce"
	case GrowUntilFits:
		return "GrowUntilFits"
	default:
		return "Unknown"
	}
}

// Config holds Manager configuration.
type Config struct {
	// CharacterSet is the set of code points rasterized by EnsurePage.
	// Default: DefaultCharacterSet()
	CharacterSet *CharacterSet

	// InitialSize is the width and height of a new page.
	// Must be a power of 2. Default: 128
	InitialSize int

	// Padding is the empty border kept around every glyph.
	// Default: 2
	Padding int

	// MinShelfRatio and MaxShelfRatio bound glyphHeight/shelfHeight for a
	// glyph to join an existing shelf. Default: 0.7 and 1.0
	MinShelfRatio float64
	MaxShelfRatio float64

	// Growth selects the growth policy. Default: GrowOnce
	Growth GrowthPolicy

	// MaxSize caps page width and height. Zero means unlimited.
	// Default: 8192
	MaxSize int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		CharacterSet:  DefaultCharacterSet(),
		InitialSize:   128,
		Padding:       2,
		MinShelfRatio: 0.7,
		MaxShelfRatio: 1.0,
		Growth:        GrowOnce,
		MaxSize:       8192,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CharacterSet == nil || c.CharacterSet.Len() == 0 {
		return &ConfigError{Field: "CharacterSet", Reason: "must not be empty"}
	}
	if c.InitialSize < 16 {
		return &ConfigError{Field: "InitialSize", Reason: "must be at least 16"}
	}
	if c.InitialSize&(c.InitialSize-1) != 0 {
		return &ConfigError{Field: "InitialSize", Reason: "must be power of 2"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.InitialSize/4 {
		return &ConfigError{Field: "Padding", Reason: "must be less than a quarter of InitialSize"}
	}
	if c.MinShelfRatio <= 0 {
		return &ConfigError{Field: "MinShelfRatio", Reason: "must be positive"}
	}
	if c.MaxShelfRatio > 1 {
		// A ratio above 1 would let a glyph overflow its shelf.
		return &ConfigError{Field: "MaxShelfRatio", Reason: "must be at most 1"}
	}
	if c.MinShelfRatio > c.MaxShelfRatio {
		return &ConfigError{Field: "MinShelfRatio", Reason: "must not exceed MaxShelfRatio"}
	}
	if c.Growth != GrowOnce && c.Growth != GrowUntilFits {
		return &ConfigError{Field: "Growth", Reason: "unknown policy"}
	}
	if c.MaxSize != 0 && c.MaxSize < c.InitialSize {
		return &ConfigError{Field: "MaxSize", Reason: "must be zero or at least InitialSize"}
	}
	return nil
}

// packerConfig extracts the ShelfPacker settings.
func (c *Config) packerConfig() PackerConfig {
	return PackerConfig{
		MinRatio: c.MinShelfRatio,
		MaxRatio: c.MaxShelfRatio,
		Growth:   c.Growth,
		MaxSize:  c.MaxSize,
	}
}

// Option configures a Manager during creation.
type Option func(*managerOptions)

// managerOptions holds optional configuration for Manager creation.
type managerOptions struct {
	backend string
	opener  source.Opener
}

// defaultManagerOptions returns the default manager options.
func defaultManagerOptions() managerOptions {
	return managerOptions{
		backend: source.DefaultBackend,
	}
}

// WithBackend selects a glyph source backend registered with source.Register.
// The default is "ximage".
func WithBackend(name string) Option {
	return func(o *managerOptions) {
		o.backend = name
	}
}

// WithOpener sets the glyph source directly, bypassing the backend registry.
func WithOpener(op source.Opener) Option {
	return func(o *managerOptions) {
		o.opener = op
	}
}
