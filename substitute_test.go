package spritepaint

import (
	"bytes"
	"errors"
	"image/color"
	"slices"
	"testing"
)

func TestApplyChoices_Substitutes(t *testing.T) {
	src := sheetA()
	pal := ExtractPalette(src)
	choices := []RGB{yellow, blue, black}

	out, err := ApplyChoices(src, pal, choices)
	if err != nil {
		t.Fatalf("ApplyChoices: %v", err)
	}
	if got, want := pixelsRGB(out), []RGB{yellow, yellow, blue, black}; !slices.Equal(got, want) {
		t.Errorf("pixels = %v, want %v", got, want)
	}
}

func TestApplyChoices_PreservesAlpha(t *testing.T) {
	src := makeImage(4, 1,
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{R: 255, A: 1},
		color.NRGBA{B: 255, A: 77},
		color.NRGBA{R: 3, G: 4, B: 5, A: 0},
	)
	pal := ExtractPalette(src)
	out, err := ApplyChoices(src, pal, []RGB{green, yellow})
	if err != nil {
		t.Fatalf("ApplyChoices: %v", err)
	}
	for x := range 4 {
		if got, want := out.NRGBAAt(x, 0).A, src.NRGBAAt(x, 0).A; got != want {
			t.Errorf("alpha at %d = %d, want %d", x, got, want)
		}
	}
	if got := out.NRGBAAt(1, 0); got != (color.NRGBA{G: 255, A: 1}) {
		t.Errorf("translucent pixel = %v, want green with alpha 1", got)
	}
	if got := out.NRGBAAt(3, 0); got != src.NRGBAAt(3, 0) {
		t.Errorf("transparent pixel = %v, want untouched %v", got, src.NRGBAAt(3, 0))
	}
}

func TestApplyChoices_Idempotent(t *testing.T) {
	src := makeImage(3, 2,
		opaque(red), color.NRGBA{G: 255, A: 90}, opaque(blue),
		opaque(blue), opaque(red), color.NRGBA{},
	)
	pal := ExtractPalette(src)
	choices := []RGB{black, yellow, red}

	a, err := ApplyChoices(src, pal, choices)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ApplyChoices(src, pal, choices)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two applications with the same choices differ")
	}
}

func TestApplyChoices_IdentityRoundTrip(t *testing.T) {
	src := makeImage(3, 2,
		opaque(red), color.NRGBA{G: 255, A: 90}, opaque(blue),
		color.NRGBA{R: 1, G: 2, B: 3, A: 0}, opaque(red), opaque(yellow),
	)
	pal := ExtractPalette(src)
	out, err := ApplyChoices(src, pal, pal.IdentityChoices())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Errorf("identity output differs from source:\n got %v\nwant %v", out.Pix, src.Pix)
	}
}

func TestApplyChoices_UnknownColor(t *testing.T) {
	src := sheetA()
	_, err := ApplyChoices(src, Palette{red, blue}, []RGB{red, blue})
	var pm *PaletteMismatchError
	if !errors.As(err, &pm) {
		t.Fatalf("err = %v, want PaletteMismatchError", err)
	}
	if pm.Color != green || pm.X != 1 || pm.Y != 1 {
		t.Errorf("mismatch = %+v, want green at 1,1", pm)
	}
}

func TestApplyChoices_ChoiceCountMismatch(t *testing.T) {
	src := sheetA()
	_, err := ApplyChoices(src, ExtractPalette(src), []RGB{red})
	var pm *PaletteMismatchError
	if !errors.As(err, &pm) {
		t.Fatalf("err = %v, want PaletteMismatchError", err)
	}
}
