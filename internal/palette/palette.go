// internal/palette/palette.go
//
// Tile color palette.
//
// A Palette is an ordered list of distinct color names. Tiles and the holding
// row refer to colors by their index (Color), so the palette order doubles as
// the deterministic tie-break order wherever more than one color qualifies.
//
// Loading behavior (Load):
//   1. If PALETTE_FILE is set, read one color name per line from that file
//      (blank lines and "#" comments skipped).
//   2. Otherwise fall back to the embedded default_palette.txt.
//
// Names are normalized to lowercase; duplicates are rejected.

package palette

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_palette.txt
var embeddedPalette string

// ErrEmpty is returned when a palette source yields no colors.
var ErrEmpty = errors.New("palette: no colors")

// Color indexes into a Palette. Lower values win tie-breaks.
type Color int

// Palette is the ordered set of color names available to a field.
type Palette []string

// Default returns the embedded palette. It panics only if the embedded file
// is malformed, which is a build defect.
func Default() Palette {
	p, err := Parse(strings.NewReader(embeddedPalette))
	if err != nil {
		panic(err)
	}
	return p
}

// Load reads the palette named by path, or the embedded default if path is "".
func Load(path string) (Palette, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads one color name per line.
func Parse(r io.Reader) (Palette, error) {
	var out Palette
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.ToLower(strings.TrimSpace(sc.Text()))
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("palette: duplicate color %q", s)
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// Len returns the number of colors.
func (p Palette) Len() int { return len(p) }

// Name returns the name of c, or "" if c is out of range.
func (p Palette) Name(c Color) string {
	if c < 0 || int(c) >= len(p) {
		return ""
	}
	return p[c]
}

// Lookup returns the Color for name.
func (p Palette) Lookup(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range p {
		if n == name {
			return Color(i), true
		}
	}
	return 0, false
}
