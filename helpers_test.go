package spritepaint

import (
	"errors"
	"image"
	"image/color"
	"io/fs"
	"testing"
)

var (
	red    = RGB{255, 0, 0}
	green  = RGB{0, 255, 0}
	blue   = RGB{0, 0, 255}
	yellow = RGB{255, 255, 0}
	black  = RGB{0, 0, 0}
)

// makeImage builds a w×h image from pixels in row-major order.
func makeImage(w, h int, px ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range px {
		img.SetNRGBA(i%w, i/w, c)
	}
	return img
}

func opaque(c RGB) color.NRGBA { return c.NRGBA(255) }

// sheetA is the 2×2 sheet [red, red, blue, green].
func sheetA() *image.NRGBA {
	return makeImage(2, 2, opaque(red), opaque(red), opaque(blue), opaque(green))
}

// fakeBackend counts uploads and frees. failAt makes the n-th upload
// attempt (1-based, counted over the backend's lifetime) fail.
type fakeBackend struct {
	next    Handle
	live    map[Handle]bool
	uploads int
	frees   []Handle
	failAt  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{live: make(map[Handle]bool)}
}

func (b *fakeBackend) Upload(img image.Image) (Handle, error) {
	b.uploads++
	if b.failAt != 0 && b.uploads == b.failAt {
		return 0, errors.New("texture rejected")
	}
	b.next++
	b.live[b.next] = true
	return b.next, nil
}

func (b *fakeBackend) Free(h Handle) {
	b.frees = append(b.frees, h)
	delete(b.live, h)
}

// newTestPainter returns a painter that decodes from images instead of the
// filesystem. Paths missing from images fail with fs.ErrNotExist.
func newTestPainter(t *testing.T, images map[string]*image.NRGBA) (*Painter, *fakeBackend) {
	t.Helper()
	cfg := DefaultConfig()
	b := newFakeBackend()
	p := NewPainter(cfg, b)
	p.load = func(path string) (*image.NRGBA, error) {
		img, ok := images[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return img, nil
	}
	return p, b
}

func mustLookup(t *testing.T, p *Painter, dest string) *Sheet {
	t.Helper()
	s, ok := p.Lookup(dest)
	if !ok {
		t.Fatalf("Lookup(%q) missing", dest)
	}
	return s
}

func mustView(t *testing.T, p *Painter, dest string) SheetView {
	t.Helper()
	v, ok := p.View(dest)
	if !ok {
		t.Fatalf("View(%q) missing", dest)
	}
	return v
}

// pixelsRGB returns the RGB of every pixel in row-major order.
func pixelsRGB(img *image.NRGBA) []RGB {
	var out []RGB
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			out = append(out, RGB{c.R, c.G, c.B})
		}
	}
	return out
}
