package spritepaint

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// pointAt returns a frame whose cursor rests on the chosen swatch of
// palette entry 0.
func pointAt(t *testing.T) *EbitenFrame {
	t.Helper()
	f := NewEbitenFrame(NewEbitenBackend())
	f.screen = ebiten.NewImage(200, 200)
	f.dt = glowDuration
	size := f.swatchSize()
	f.cursor = image.Pt(size+size/2, size/2)
	return f
}

func TestEbitenFrame_ColorPickerInput(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *EbitenFrame)
		want  RGB
	}{
		{"right click restores", func(f *EbitenFrame) { f.rightClicked = true }, red},
		{"left click rotates hue", func(f *EbitenFrame) { f.clicked = true }, RGB{0, 255, 128}},
		{"wheel shifts hue", func(f *EbitenFrame) { f.wheel = 12 }, blue},
		{"shift wheel lowers value", func(f *EbitenFrame) { f.wheel = -20; f.shift = true }, black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pointAt(t)
			tt.setup(f)
			res := f.ColorPicker("a.png", 0, red, green, false)
			if !res.Hovered || !res.Changed || res.Color != tt.want {
				t.Errorf("result = %+v, want hovered change to %v", res, tt.want)
			}
		})
	}
}

func TestEbitenFrame_NoInputNoChange(t *testing.T) {
	f := pointAt(t)
	res := f.ColorPicker("a.png", 0, red, green, false)
	if !res.Hovered || res.Changed || res.Color != green {
		t.Errorf("result = %+v, want hovered without change", res)
	}

	f.cursor = image.Pt(190, 190)
	f.clicked = true
	res = f.ColorPicker("a.png", 0, red, green, true)
	if res.Hovered || res.Changed {
		t.Errorf("result = %+v, want no hover and no change away from the swatch", res)
	}
}

func TestEbitenFrame_GlowEases(t *testing.T) {
	f := pointAt(t)
	key := swatchKey{"a.png", 0}
	if got := f.updateGlow(key, true); got != 1 {
		t.Errorf("glow after full duration = %v, want 1", got)
	}
	f.dt = glowDuration / 2
	got := f.updateGlow(key, false)
	if got <= 0 || got >= 1 {
		t.Errorf("glow halfway out = %v, want between 0 and 1", got)
	}
}

func TestEbitenFrame_SkipsWithoutScreen(t *testing.T) {
	f := NewEbitenFrame(NewEbitenBackend())
	if f.BeginSheet(SheetView{Destination: "a.png"}) {
		t.Error("BeginSheet without Begin should skip the sheet")
	}
}
