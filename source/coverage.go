package source

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
)

// Coverage returns the code points in runes that the font in data does not
// map to a glyph, in the order they appear in runes.
func Coverage(data []byte, runes []rune) ([]rune, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: failed to parse font for coverage: %w", err)
	}

	var missing []rune
	for _, r := range runes {
		if _, ok := face.NominalGlyph(r); !ok {
			missing = append(missing, r)
		}
	}
	return missing, nil
}
