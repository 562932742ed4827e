package spritepaint

import "image"

// ApplyChoices recolors src by replacing every visible pixel's RGB with
// choices[i], where i is the pixel's index in palette. Alpha is copied
// unchanged and fully transparent pixels pass through as they are.
//
// A visible pixel whose color is missing from palette means src no longer
// matches the palette it was extracted into; that is reported as a
// *PaletteMismatchError rather than guessed around.
func ApplyChoices(src *image.NRGBA, palette Palette, choices []RGB) (*image.NRGBA, error) {
	if len(choices) != len(palette) {
		return nil, &PaletteMismatchError{
			X: -1, Y: -1,
			Reason: "choice count differs from palette size",
		}
	}
	index := palette.Index()
	b := src.Rect
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < b.Dx(); x, si, di = x+1, si+4, di+4 {
			a := src.Pix[si+3]
			if a == 0 {
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
				continue
			}
			c := RGB{src.Pix[si], src.Pix[si+1], src.Pix[si+2]}
			i, ok := index[c]
			if !ok {
				return nil, &PaletteMismatchError{
					X: b.Min.X + x, Y: b.Min.Y + y, Color: c,
					Reason: "pixel color not in palette",
				}
			}
			to := choices[i]
			dst.Pix[di] = to.R
			dst.Pix[di+1] = to.G
			dst.Pix[di+2] = to.B
			dst.Pix[di+3] = a
		}
	}
	return dst, nil
}
