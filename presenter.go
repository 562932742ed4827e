package spritepaint

import (
	"image"
	"slices"
)

// Frame is the immediate-mode UI surface the presenter draws into. The host
// owns layout, input and pacing; the presenter only reports what to show and
// reads back what the user changed.
type Frame interface {
	// BeginSheet starts a group for one sheet. Returning false skips the
	// sheet's pickers (for example when the group is collapsed); EndSheet is
	// not called then.
	BeginSheet(sheet SheetView) bool
	// ColorPicker shows palette entry index with its original and currently
	// chosen colors and the hover flag from the previous frame.
	ColorPicker(sheet string, index int, original, chosen RGB, hovered bool) PickerResult
	EndSheet()
}

// PickerResult is what one color picker reports back for the frame.
type PickerResult struct {
	Color   RGB
	Changed bool
	Hovered bool
}

// Presenter translates registry state into draw requests for a Frame and
// into upload/free requests for a Backend. UI hover state lives here, apart
// from the cached sheet data.
type Presenter struct {
	p       *Painter
	backend Backend

	hover    map[string][]bool
	deferred []Handle
}

func newPresenter(p *Painter, backend Backend) *Presenter {
	return &Presenter{
		p:       p,
		backend: backend,
		hover:   make(map[string][]bool),
	}
}

// NeedsDraw reports whether at least one sheet has finished setup with a
// non-empty palette. Sheets waiting for a recolor stay drawable with their
// last committed data.
func (pr *Presenter) NeedsDraw() bool {
	reg := pr.p.reg
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, s := range reg.sheets {
		if !s.deleted && s.presentable() {
			return true
		}
	}
	return false
}

// Draw presents every drawable sheet's palette and applies the edits the
// frame reports. Each changed color schedules a recolor of its sheet.
func (pr *Presenter) Draw(f Frame) {
	views := pr.p.reg.Views()
	live := make(map[string]struct{}, len(views))
	for _, v := range views {
		if v.Deleted || v.ColorMod == nil || len(v.Palette) == 0 {
			continue
		}
		live[v.Destination] = struct{}{}
		if !f.BeginSheet(v) {
			continue
		}
		hover := pr.hover[v.Destination]
		if len(hover) != len(v.Palette) {
			hover = make([]bool, len(v.Palette))
		}
		for i, orig := range v.Palette {
			res := f.ColorPicker(v.Destination, i, orig, v.Choices[i], hover[i])
			hover[i] = res.Hovered
			if res.Changed && res.Color != v.Choices[i] {
				if s, ok := pr.p.reg.Lookup(v.Destination); ok {
					if err := pr.p.SetChoice(s, i, res.Color); err != nil {
						pr.p.debugWarn("picker edit on %q: %v", v.Destination, err)
					}
				}
			}
		}
		pr.hover[v.Destination] = hover
		f.EndSheet()
	}
	for dest := range pr.hover {
		if _, ok := live[dest]; !ok {
			delete(pr.hover, dest)
		}
	}
}

// Hovered returns the hover flag of a palette entry as of the last Draw.
func (pr *Presenter) Hovered(destination string, index int) bool {
	h := pr.hover[destination]
	return index >= 0 && index < len(h) && h[index]
}

// EndFrame frees handles released during the frame. Hosts call it once the
// frame's draw calls are submitted so no freed handle is still bound.
func (pr *Presenter) EndFrame() {
	for _, h := range pr.deferred {
		pr.backend.Free(h)
		pr.p.stats.frees.Add(1)
	}
	pr.deferred = pr.deferred[:0]
}

// releaseSheet queues all handles of a removed sheet for freeing.
func (pr *Presenter) releaseSheet(s *Sheet) {
	pr.deferHandles(s.handles)
	s.handles = nil
}

func (pr *Presenter) deferHandles(handles []SpriteHandles) {
	for _, sh := range handles {
		pr.deferred = append(pr.deferred, sh.Source, sh.ColorMod, sh.Preview)
	}
}

type uploadWork struct {
	sheet   *Sheet
	dest    string
	sprites []SubSprite
}

// syncRenderHandles uploads the sub-sprites of every sheet that committed
// new data, in registration order, and swaps the new handles in. Old handles
// are freed at the end of the frame. When an upload fails the sheet keeps
// its old handles and the partial batch is freed at once, since nothing was
// ever bound to it.
func (pr *Presenter) syncRenderHandles() (uploaded int, errs []error) {
	reg := pr.p.reg
	reg.mu.Lock()
	var work []uploadWork
	for _, s := range reg.all() {
		if !s.needsUpload {
			continue
		}
		s.needsUpload = false
		work = append(work, uploadWork{sheet: s, dest: s.destination, sprites: s.sprites})
	}
	reg.mu.Unlock()

	for _, w := range work {
		handles, err := pr.uploadSprites(w.dest, w.sprites)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg.mu.Lock()
		old := w.sheet.handles
		w.sheet.handles = handles
		reg.mu.Unlock()
		pr.deferHandles(old)
		uploaded += len(handles)
	}
	return uploaded, errs
}

func (pr *Presenter) uploadSprites(dest string, sprites []SubSprite) ([]SpriteHandles, error) {
	out := make([]SpriteHandles, 0, len(sprites))
	var batch []Handle
	fail := func(i int, err error) ([]SpriteHandles, error) {
		for _, h := range batch {
			pr.backend.Free(h)
			pr.p.stats.frees.Add(1)
		}
		return nil, &UploadError{Sheet: dest, Sprite: i, Err: err}
	}
	for i, sp := range sprites {
		var sh SpriteHandles
		for _, slot := range []struct {
			img *image.NRGBA
			dst *Handle
		}{
			{sp.Source, &sh.Source},
			{sp.ColorMod, &sh.ColorMod},
			{sp.Preview, &sh.Preview},
		} {
			pr.p.stats.uploads.Add(1)
			h, err := pr.backend.Upload(slot.img)
			if err != nil {
				return fail(i, err)
			}
			*slot.dst = h
			batch = append(batch, h)
		}
		out = append(out, sh)
	}
	return slices.Clip(out), nil
}
