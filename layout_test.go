package spritepaint

import (
	"image"
	"slices"
	"strings"
	"testing"
)

const hashAtlasJSON = `{
  "frames": {
    "walk_1.png": {
      "frame": {"x": 0, "y": 0, "w": 16, "h": 16},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 16, "h": 16},
      "sourceSize": {"w": 16, "h": 16}
    },
    "idle.png": {
      "frame": {"x": 16, "y": 0, "w": 8, "h": 12},
      "rotated": false
    },
    "turned.png": {
      "frame": {"x": 0, "y": 16, "w": 12, "h": 6},
      "rotated": true
    },
    "offsheet.png": {
      "frame": {"x": 100, "y": 100, "w": 4, "h": 4},
      "rotated": false
    }
  },
  "meta": {"image": "hero_col.png", "size": {"w": 32, "h": 32}}
}`

const arrayAtlasJSON = `{
  "textures": [
    {"image": "a.png", "frames": {"a.png": {"frame": {"x": 0, "y": 0, "w": 4, "h": 4}}}},
    {"image": "b.png", "frames": {"b.png": {"frame": {"x": 2, "y": 3, "w": 5, "h": 6}}}}
  ]
}`

func TestGridLayout_RowMajor(t *testing.T) {
	got := GridLayout{CellW: 2, CellH: 1}.Cells(image.Pt(4, 2))
	want := []image.Rectangle{
		image.Rect(0, 0, 2, 1), image.Rect(2, 0, 4, 1),
		image.Rect(0, 1, 2, 2), image.Rect(2, 1, 4, 2),
	}
	if !slices.Equal(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
}

func TestGridLayout_DropsPartialCells(t *testing.T) {
	got := GridLayout{CellW: 3, CellH: 3}.Cells(image.Pt(7, 4))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1] != image.Rect(3, 0, 6, 3) {
		t.Errorf("second cell = %v", got[1])
	}
}

func TestGridLayout_SmallSheetIsOneCell(t *testing.T) {
	for _, g := range []GridLayout{{CellW: 128, CellH: 128}, {}} {
		got := g.Cells(image.Pt(2, 2))
		if want := []image.Rectangle{image.Rect(0, 0, 2, 2)}; !slices.Equal(got, want) {
			t.Errorf("%+v: cells = %v, want %v", g, got, want)
		}
	}
}

func TestGridLayout_EmptySheet(t *testing.T) {
	if got := (GridLayout{CellW: 1, CellH: 1}).Cells(image.Point{}); got != nil {
		t.Errorf("cells = %v, want nil", got)
	}
}

func TestLoadAtlasLayout_Hash(t *testing.T) {
	l, err := LoadAtlasLayout([]byte(hashAtlasJSON), 0)
	if err != nil {
		t.Fatalf("LoadAtlasLayout: %v", err)
	}
	var names []string
	for _, r := range l.Regions {
		names = append(names, r.Name)
	}
	if want := []string{"idle.png", "offsheet.png", "turned.png", "walk_1.png"}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestLoadAtlasLayout_RotatedSwapsFootprint(t *testing.T) {
	l, err := LoadAtlasLayout([]byte(hashAtlasJSON), 0)
	if err != nil {
		t.Fatal(err)
	}
	r := l.Regions[2]
	if !r.Rotated {
		t.Fatal("turned.png should be rotated")
	}
	if r.Rect != image.Rect(0, 16, 6, 28) {
		t.Errorf("rect = %v, want (0,16)-(6,28)", r.Rect)
	}
}

func TestAtlasLayout_CellsClipped(t *testing.T) {
	l, err := LoadAtlasLayout([]byte(hashAtlasJSON), 0)
	if err != nil {
		t.Fatal(err)
	}
	got := l.Cells(image.Pt(20, 20))
	want := []image.Rectangle{
		image.Rect(16, 0, 20, 12),
		image.Rect(0, 16, 6, 20),
		image.Rect(0, 0, 16, 16),
	}
	if !slices.Equal(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
}

func TestLoadAtlasLayout_ArrayPage(t *testing.T) {
	l, err := LoadAtlasLayout([]byte(arrayAtlasJSON), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Regions) != 1 || l.Regions[0].Rect != image.Rect(2, 3, 7, 9) {
		t.Errorf("regions = %+v", l.Regions)
	}
}

func TestLoadAtlasLayout_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
		page int
		want string
	}{
		{"invalid", `{not json`, 0, "failed to parse atlas JSON"},
		{"no keys", `{"meta": {}}`, 0, "neither"},
		{"page out of range", arrayAtlasJSON, 2, "2 pages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAtlasLayout([]byte(tt.json), tt.page)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
