package spritepaint

import (
	"encoding/json"
	"fmt"
	"image"
	"slices"
	"strings"
)

// Layout cuts a sheet of the given size into sprite cells. Implementations
// must be pure: the same size always yields the same cells in the same order.
type Layout interface {
	Cells(size image.Point) []image.Rectangle
}

// GridLayout slices a sheet into equally sized cells, row by row. Partial
// cells at the right and bottom edges are dropped; a sheet smaller than one
// cell becomes a single cell covering the whole sheet.
type GridLayout struct {
	CellW, CellH int
}

// Cells implements Layout.
func (g GridLayout) Cells(size image.Point) []image.Rectangle {
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}
	if g.CellW <= 0 || g.CellH <= 0 || size.X < g.CellW || size.Y < g.CellH {
		return []image.Rectangle{image.Rect(0, 0, size.X, size.Y)}
	}
	cols, rows := size.X/g.CellW, size.Y/g.CellH
	out := make([]image.Rectangle, 0, cols*rows)
	for row := range rows {
		for col := range cols {
			out = append(out, image.Rect(
				col*g.CellW, row*g.CellH,
				(col+1)*g.CellW, (row+1)*g.CellH,
			))
		}
	}
	return out
}

// AtlasRegion is one named frame of a TexturePacker sheet, in sheet pixels.
type AtlasRegion struct {
	Name    string
	Rect    image.Rectangle
	Rotated bool
}

// AtlasLayout slices a sheet along the frames of a TexturePacker atlas.
// Cells are ordered by region name.
type AtlasLayout struct {
	Regions []AtlasRegion
}

// Cells implements Layout. Frames outside the sheet are clipped or dropped.
func (a *AtlasLayout) Cells(size image.Point) []image.Rectangle {
	bounds := image.Rect(0, 0, size.X, size.Y)
	out := make([]image.Rectangle, 0, len(a.Regions))
	for _, r := range a.Regions {
		c := r.Rect.Intersect(bounds)
		if c.Empty() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// LoadAtlasLayout parses TexturePacker JSON. Both the hash format (single
// "frames" object) and the array format ("textures" array with per-page frame
// lists) are accepted; for the array format only the given page is used.
func LoadAtlasLayout(jsonData []byte, page int) (*AtlasLayout, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("spritepaint: failed to parse atlas JSON: %w", err)
	}

	var frames map[string]jsonFrame
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("spritepaint: failed to parse atlas textures array: %w", err)
		}
		if page < 0 || page >= len(textures) {
			return nil, fmt.Errorf("spritepaint: atlas has %d pages, page %d requested", len(textures), page)
		}
		frames = textures[page].Frames
	case probe.Frames != nil:
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("spritepaint: failed to parse atlas frames: %w", err)
		}
	default:
		return nil, fmt.Errorf("spritepaint: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	layout := &AtlasLayout{Regions: make([]AtlasRegion, 0, len(frames))}
	for name, f := range frames {
		layout.Regions = append(layout.Regions, frameToRegion(name, f))
	}
	slices.SortFunc(layout.Regions, func(a, b AtlasRegion) int {
		return strings.Compare(a.Name, b.Name)
	})
	return layout, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// frameToRegion converts a frame to sheet pixels. Rotated frames are stored
// 90 degrees clockwise, so their footprint on the sheet has w and h swapped.
func frameToRegion(name string, f jsonFrame) AtlasRegion {
	w, h := f.Frame.W, f.Frame.H
	if f.Rotated {
		w, h = h, w
	}
	return AtlasRegion{
		Name:    name,
		Rect:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+w, f.Frame.Y+h),
		Rotated: f.Rotated,
	}
}
