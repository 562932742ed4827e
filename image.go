package spritepaint

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// BMP sheets decode alongside PNG.
	_ "golang.org/x/image/bmp"

	xdraw "golang.org/x/image/draw"
)

// DecodeImage decodes any registered format into a straight-alpha buffer
// whose bounds start at the origin.
func DecodeImage(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// LoadImage opens and decodes the image at path.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img as PNG at path, creating parent directories.
func SaveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// toNRGBA returns img as an origin-based *image.NRGBA. NRGBA inputs are
// copied row by row so translucent pixels keep their exact channels; other
// models go through a Src draw.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return cropNRGBA(n, n.Rect)
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// cropNRGBA copies r out of src into a new origin-based buffer.
func cropNRGBA(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(src.Rect)
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	rowLen := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		so := src.PixOffset(r.Min.X, r.Min.Y+y)
		do := dst.PixOffset(0, y)
		copy(dst.Pix[do:do+rowLen], src.Pix[so:so+rowLen])
	}
	return dst
}

// PreviewImage returns a thumbnail of img whose larger side is at most
// maxDim. Each preview pixel is copied from the source pixel nearest to its
// center, so the preview holds no channel values that img does not. Images
// already small enough are returned as a copy.
func PreviewImage(img *image.NRGBA, maxDim int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return cropNRGBA(img, img.Rect)
	}
	pw, ph := maxDim, maxDim
	if w > h {
		ph = max(1, h*maxDim/w)
	} else if h > w {
		pw = max(1, w*maxDim/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	for dy := range ph {
		sy := img.Rect.Min.Y + (2*dy+1)*h/(2*ph)
		do := dst.PixOffset(0, dy)
		for dx := range pw {
			sx := img.Rect.Min.X + (2*dx+1)*w/(2*pw)
			so := img.PixOffset(sx, sy)
			copy(dst.Pix[do:do+4], img.Pix[so:so+4])
			do += 4
		}
	}
	return dst
}
