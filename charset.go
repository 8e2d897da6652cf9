package fontatlas

import (
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/rangetable"
)

// CharacterSet is an immutable set of code points to pre-rasterize.
// Iteration order is ascending, which makes atlas layout deterministic.
type CharacterSet struct {
	table *unicode.RangeTable
	runes []rune
}

// NewCharacterSet returns the union of the given tables.
func NewCharacterSet(tables ...*unicode.RangeTable) *CharacterSet {
	t := rangetable.Merge(tables...)
	var runes []rune
	rangetable.Visit(t, func(r rune) {
		runes = append(runes, r)
	})
	return &CharacterSet{table: t, runes: runes}
}

// CharacterSetOf returns a set holding exactly the given runes.
func CharacterSetOf(runes ...rune) *CharacterSet {
	// rangetable.New sorts its argument in place.
	return NewCharacterSet(rangetable.New(append([]rune(nil), runes...)...))
}

// CharacterSetFromString returns a set holding every rune of s.
func CharacterSetFromString(s string) *CharacterSet {
	return CharacterSetOf([]rune(s)...)
}

// DefaultCharacterSet returns printable Basic Latin, Latin-1 letters and
// punctuation, basic Cyrillic, and common typographic punctuation.
func DefaultCharacterSet() *CharacterSet {
	return NewCharacterSet(
		&unicode.RangeTable{R16: []unicode.Range16{
			{Lo: 0x0020, Hi: 0x007e, Stride: 1}, // space, digits, letters, ASCII punctuation
			{Lo: 0x00a0, Hi: 0x00ff, Stride: 1}, // Latin-1 supplement
			{Lo: 0x0400, Hi: 0x045f, Stride: 1}, // Cyrillic
		}},
		rangetable.New(
			'–', '—', // en and em dash
			'‘', '’', '‚', '“', '”', '„', // quotes
			'•', '…', '№', // bullet, ellipsis, numero
		),
	)
}

// Union returns a new set holding the runes of c and other.
func (c *CharacterSet) Union(other *CharacterSet) *CharacterSet {
	return NewCharacterSet(c.table, other.table)
}

// Contains reports whether r is in the set.
func (c *CharacterSet) Contains(r rune) bool {
	return unicode.Is(c.table, r)
}

// Len returns the number of runes in the set.
func (c *CharacterSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.runes)
}

// Runes returns the runes in ascending order.
// The returned slice must not be modified.
func (c *CharacterSet) Runes() []rune {
	return c.runes
}

// Table returns the underlying range table.
func (c *CharacterSet) Table() *unicode.RangeTable {
	return c.table
}

// Scripts counts the runes of the set per Unicode script.
func (c *CharacterSet) Scripts() map[language.Script]int {
	counts := make(map[language.Script]int)
	for _, r := range c.runes {
		counts[language.LookupScript(r)]++
	}
	return counts
}
