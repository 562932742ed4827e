package spritepaint

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	defaultSwatchSize = 20
	swatchGap         = 6
	swatchesPerRow    = 8
	sheetLabelHeight  = 16
	sheetPadding      = 12
	maxThumbnails     = 8
	glowDuration      = 0.15 // seconds
	hueStep           = 10.0 // degrees per wheel notch
	valueStep         = 0.05
)

// EbitenFrame is a Frame drawn with Ebitengine. Each palette entry shows the
// original color next to the chosen one. Over the chosen swatch the mouse
// wheel shifts hue (value with Shift held), a left click rotates hue by 30
// degrees and a right click restores the original color.
type EbitenFrame struct {
	Backend *EbitenBackend
	// Origin is the top-left corner of the first sheet group.
	Origin image.Point
	// SwatchSize is the side of each color square. Zero means 20.
	SwatchSize int

	screen *ebiten.Image
	dt     float32
	y      int
	rowTop int
	count  int

	cursor       image.Point
	wheel        float64
	clicked      bool
	rightClicked bool
	shift        bool

	glows map[swatchKey]*swatchGlow
}

type swatchKey struct {
	sheet string
	index int
}

// swatchGlow eases a swatch highlight in and out as hover changes.
type swatchGlow struct {
	tween   *gween.Tween
	value   float32
	hovered bool
}

// NewEbitenFrame creates a frame that draws sprite thumbnails from backend.
func NewEbitenFrame(backend *EbitenBackend) *EbitenFrame {
	return &EbitenFrame{
		Backend: backend,
		glows:   make(map[swatchKey]*swatchGlow),
	}
}

// Begin samples input for this frame and targets screen. Call it before
// Presenter.Draw.
func (f *EbitenFrame) Begin(screen *ebiten.Image, dt float32) {
	f.screen = screen
	f.dt = dt
	f.y = f.Origin.Y
	mx, my := ebiten.CursorPosition()
	f.cursor = image.Pt(mx, my)
	_, f.wheel = ebiten.Wheel()
	f.clicked = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	f.rightClicked = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	f.shift = ebiten.IsKeyPressed(ebiten.KeyShift)
}

func (f *EbitenFrame) swatchSize() int {
	if f.SwatchSize > 0 {
		return f.SwatchSize
	}
	return defaultSwatchSize
}

// BeginSheet implements Frame.
func (f *EbitenFrame) BeginSheet(v SheetView) bool {
	if f.screen == nil {
		return false
	}
	ebitenutil.DebugPrintAt(f.screen, v.Destination, f.Origin.X, f.y)
	f.y += sheetLabelHeight

	thumbH := 0
	x := f.Origin.X
	for i, h := range v.Handles {
		if i == maxThumbnails {
			break
		}
		img := f.Backend.Image(h.Preview)
		if img == nil {
			continue
		}
		var op ebiten.DrawImageOptions
		op.GeoM.Translate(float64(x), float64(f.y))
		f.screen.DrawImage(img, &op)
		b := img.Bounds()
		x += b.Dx() + swatchGap
		thumbH = max(thumbH, b.Dy())
	}
	if thumbH > 0 {
		f.y += thumbH + swatchGap
	}
	f.rowTop = f.y
	f.count = len(v.Palette)
	return true
}

// ColorPicker implements Frame.
func (f *EbitenFrame) ColorPicker(sheet string, index int, original, chosen RGB, hovered bool) PickerResult {
	size := f.swatchSize()
	cell := 2*size + swatchGap
	col, row := index%swatchesPerRow, index/swatchesPerRow
	x := f.Origin.X + col*(cell+swatchGap)
	y := f.rowTop + row*(size+swatchGap)
	origRect := image.Rect(x, y, x+size, y+size)
	chosenRect := image.Rect(x+size, y, x+2*size, y+size)

	res := PickerResult{Color: chosen, Hovered: f.cursor.In(chosenRect)}
	glow := f.updateGlow(swatchKey{sheet, index}, res.Hovered)

	if glow > 0 {
		a := uint8(glow * 255)
		fillRect(f.screen, chosenRect.Inset(-2), color.NRGBA{R: 255, G: 255, B: 255, A: a})
	}
	fillRect(f.screen, origRect, original.NRGBA(255))
	fillRect(f.screen, chosenRect, chosen.NRGBA(255))

	if !res.Hovered {
		return res
	}
	next := chosen
	switch {
	case f.rightClicked:
		next = original
	case f.clicked:
		next = ShiftHSV(chosen, 30, 0, 0)
	case f.wheel != 0 && f.shift:
		next = ShiftHSV(chosen, 0, 0, f.wheel*valueStep)
	case f.wheel != 0:
		next = ShiftHSV(chosen, f.wheel*hueStep, 0, 0)
	}
	if next != chosen {
		res.Color = next
		res.Changed = true
	}
	return res
}

// EndSheet implements Frame.
func (f *EbitenFrame) EndSheet() {
	size := f.swatchSize()
	rows := (f.count + swatchesPerRow - 1) / swatchesPerRow
	f.y = f.rowTop + rows*(size+swatchGap) + sheetPadding
}

// updateGlow advances the highlight of one swatch and returns its strength
// in [0, 1].
func (f *EbitenFrame) updateGlow(key swatchKey, hovered bool) float32 {
	g, ok := f.glows[key]
	if !ok {
		g = &swatchGlow{}
		f.glows[key] = g
	}
	if hovered != g.hovered || g.tween == nil {
		to := float32(0)
		if hovered {
			to = 1
		}
		g.tween = gween.New(g.value, to, glowDuration, ease.OutQuad)
		g.hovered = hovered
	}
	g.value, _ = g.tween.Update(f.dt)
	return g.value
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	dst.SubImage(r).(*ebiten.Image).Fill(c)
}
