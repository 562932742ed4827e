package spritepaint

import (
	"image"
	"slices"
)

// Palette is the deduplicated set of colors of a sheet in first-seen order
// of a row-major scan.
type Palette []RGB

// ExtractPalette scans img left to right, top to bottom and returns every
// distinct RGB triple. Alpha does not take part in equality, except that
// fully transparent pixels carry no visible color and are skipped, so the RGB
// stored under alpha 0 never becomes a palette entry.
func ExtractPalette(img *image.NRGBA) Palette {
	var out Palette
	seen := make(map[RGB]struct{})
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			if img.Pix[i+3] == 0 {
				continue
			}
			c := RGB{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Index maps each color to its position in p.
func (p Palette) Index() map[RGB]int {
	idx := make(map[RGB]int, len(p))
	for i, c := range p {
		idx[c] = i
	}
	return idx
}

// IdentityChoices returns choices mapping every palette index to its own
// color.
func (p Palette) IdentityChoices() []RGB {
	return slices.Clone([]RGB(p))
}

// carryChoices builds choices for a freshly extracted palette. Colors that
// were already present in prev keep the choice made for them; explicit
// overrides win over both.
func carryChoices(next, prev Palette, prevChoices []RGB, overrides map[int]RGB) []RGB {
	choices := next.IdentityChoices()
	if len(prev) == len(prevChoices) {
		old := prev.Index()
		for i, c := range next {
			if j, ok := old[c]; ok {
				choices[i] = prevChoices[j]
			}
		}
	}
	for i, c := range overrides {
		if i >= 0 && i < len(choices) {
			choices[i] = c
		}
	}
	return choices
}
