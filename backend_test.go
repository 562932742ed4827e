package spritepaint

import (
	"image"
	"testing"
)

func TestEbitenBackend_UploadFree(t *testing.T) {
	b := NewEbitenBackend()
	h1, err := b.Upload(sheetA())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	h2, err := b.Upload(sheetA())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if h1 == 0 || h1 == h2 {
		t.Errorf("handles = %d, %d; want distinct non-zero", h1, h2)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if img := b.Image(h1); img == nil || img.Bounds().Dx() != 2 {
		t.Errorf("Image(h1) = %v, want 2px wide image", img)
	}

	b.Free(h1)
	b.Free(h1)
	if b.Len() != 1 {
		t.Errorf("Len after free = %d, want 1", b.Len())
	}
	if b.Image(h1) != nil {
		t.Error("freed handle still resolves")
	}
	h3, _ := b.Upload(sheetA())
	if h3 == h1 {
		t.Error("handle reused after free")
	}
}

func TestEbitenBackend_RejectsEmpty(t *testing.T) {
	b := NewEbitenBackend()
	if _, err := b.Upload(image.NewNRGBA(image.Rect(0, 0, 0, 3))); err == nil {
		t.Error("expected error for empty image")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d, want 0", b.Len())
	}
}

func TestEbitenBackend_MaxSize(t *testing.T) {
	b := NewEbitenBackend()
	b.MaxSize = 4
	if _, err := b.Upload(image.NewNRGBA(image.Rect(0, 0, 5, 1))); err == nil {
		t.Error("expected error above MaxSize")
	}
	if _, err := b.Upload(image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Errorf("Upload at MaxSize: %v", err)
	}
}
