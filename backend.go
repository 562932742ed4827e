package spritepaint

import (
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Handle is an opaque reference to an image held by a rendering backend.
// The zero Handle is never issued.
type Handle uint64

// Backend turns decoded images into displayable resources. Every handle
// returned by Upload is later passed to Free exactly once.
type Backend interface {
	Upload(img image.Image) (Handle, error)
	Free(h Handle)
}

// EbitenBackend keeps uploaded sub-sprites as *ebiten.Image. Handles are
// issued from a counter and never reused.
type EbitenBackend struct {
	mu     sync.Mutex
	next   Handle
	images map[Handle]*ebiten.Image

	// MaxSize rejects uploads larger than MaxSize on either side. Zero means
	// no limit.
	MaxSize int
}

// NewEbitenBackend creates an empty backend.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{images: make(map[Handle]*ebiten.Image)}
}

// Upload implements Backend.
func (b *EbitenBackend) Upload(img image.Image) (Handle, error) {
	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return 0, fmt.Errorf("empty image %dx%d", size.X, size.Y)
	}
	if b.MaxSize > 0 && (size.X > b.MaxSize || size.Y > b.MaxSize) {
		return 0, fmt.Errorf("image %dx%d exceeds max texture size %d", size.X, size.Y, b.MaxSize)
	}
	eimg := ebiten.NewImageFromImage(img)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.images[b.next] = eimg
	return b.next, nil
}

// Free implements Backend. Unknown handles are ignored.
func (b *EbitenBackend) Free(h Handle) {
	b.mu.Lock()
	img, ok := b.images[h]
	delete(b.images, h)
	b.mu.Unlock()
	if ok {
		img.Deallocate()
	}
}

// Image returns the ebiten image behind h, or nil.
func (b *EbitenBackend) Image(h Handle) *ebiten.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.images[h]
}

// Len returns the number of live handles.
func (b *EbitenBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.images)
}
