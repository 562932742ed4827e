package spritepaint

import (
	"errors"
	"image"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrSheetRemoved is returned when an evicted or purged sheet is used.
var ErrSheetRemoved = errors.New("spritepaint: sheet was removed")

// ErrChoiceIndex is returned for a palette index outside the sheet palette.
var ErrChoiceIndex = errors.New("spritepaint: palette index out of range")

// Stats counts image operations since the painter was created.
type Stats struct {
	Decodes       int64
	Extractions   int64
	Substitutions int64
	Slices        int64
	Uploads       int64
	Frees         int64
}

type stats struct {
	decodes       atomic.Int64
	extractions   atomic.Int64
	substitutions atomic.Int64
	slices        atomic.Int64
	uploads       atomic.Int64
	frees         atomic.Int64
}

// TickReport summarizes one call to Painter.Tick.
type TickReport struct {
	Timestamp uint64
	// Skipped is true when the tick did no image work: nothing was pending,
	// or a pass already ran for this timestamp.
	Skipped   bool
	Setup     int
	Repainted int
	Evicted   int
	Purged    int
	Uploaded  int
	Errors    []error
}

// scheduler coalesces invalidations into at most one pass per timestamp.
// The pending flag lives on the Registry so registrations made directly on
// it are seen by Tick.
type scheduler struct {
	timestamp uint64
	ran       bool
}

// Painter keeps recolored sprite sheets consistent with their sources and
// with the colors the user picked. Registration may happen from any
// goroutine; Tick, Presenter.Draw and Close belong to the host loop.
type Painter struct {
	cfg      Config
	reg      *Registry
	pres     *Presenter
	resolver *FolderResolver
	sched    scheduler
	stats    stats
	sink     EventSink
	debug    atomic.Bool

	layoutMu sync.Mutex
	layouts  map[string]Layout

	// load decodes a source sheet. Replaced in tests.
	load func(path string) (*image.NRGBA, error)

	// OnError receives every reported sheet failure, on the goroutine that
	// called Tick.
	OnError func(err error)
}

// NewPainter creates a painter that uploads sub-sprites to backend.
func NewPainter(cfg Config, backend Backend) *Painter {
	p := &Painter{
		cfg:      cfg,
		reg:      newRegistry(),
		resolver: &FolderResolver{SourceFolder: cfg.SourceFolder, DestinationFolder: cfg.DestinationFolder},
		layouts:  make(map[string]Layout),
		load:     LoadImage,
	}
	p.pres = newPresenter(p, backend)
	p.debug.Store(cfg.Debug)
	return p
}

// Registry returns the sheet registry.
func (p *Painter) Registry() *Registry { return p.reg }

// Presenter returns the presentation adapter for the UI and render backend.
func (p *Painter) Presenter() *Presenter { return p.pres }

// Resolver returns the folder resolver built from the config.
func (p *Painter) Resolver() *FolderResolver { return p.resolver }

// SetEventSink sets the optional event forwarder.
func (p *Painter) SetEventSink(sink EventSink) { p.sink = sink }

// SetDebugMode enables or disables per-tick stats and removed-sheet panics.
func (p *Painter) SetDebugMode(enabled bool) { p.debug.Store(enabled) }

// SetLayout overrides the slicing geometry of one sheet. It takes effect on
// the sheet's next setup or recolor.
func (p *Painter) SetLayout(destination string, layout Layout) {
	p.layoutMu.Lock()
	defer p.layoutMu.Unlock()
	p.layouts[destination] = layout
}

func (p *Painter) layoutFor(destination string) Layout {
	p.layoutMu.Lock()
	defer p.layoutMu.Unlock()
	if l, ok := p.layouts[destination]; ok {
		return l
	}
	return GridLayout{CellW: p.cfg.CellWidth, CellH: p.cfg.CellHeight}
}

// Stats returns a snapshot of the operation counters.
func (p *Painter) Stats() Stats {
	return Stats{
		Decodes:       p.stats.decodes.Load(),
		Extractions:   p.stats.extractions.Load(),
		Substitutions: p.stats.substitutions.Load(),
		Slices:        p.stats.slices.Load(),
		Uploads:       p.stats.uploads.Load(),
		Frees:         p.stats.frees.Load(),
	}
}

// RegisterSheet records a sheet reported by the filesystem collaborator.
// See Registry.Register for the flag semantics.
func (p *Painter) RegisterSheet(fullPath, destination string, outdated, deleted bool) {
	p.reg.Register(fullPath, destination, outdated, deleted)
}

// Lookup returns the sheet registered under destination.
func (p *Painter) Lookup(destination string) (*Sheet, bool) {
	return p.reg.Lookup(destination)
}

// View returns a snapshot of the sheet registered under destination.
func (p *Painter) View(destination string) (SheetView, bool) {
	p.reg.mu.RLock()
	defer p.reg.mu.RUnlock()
	s, ok := p.reg.sheets[cleanDestination(destination)]
	if !ok {
		return SheetView{}, false
	}
	return s.view(), true
}

// MarkOutdated schedules a recolor of s with its current choices. It is a
// no-op for sheets already waiting for work; a sheet being repainted right
// now is recolored again on the next tick.
func (p *Painter) MarkOutdated(s *Sheet) error {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	if s.evicted {
		if p.debug.Load() {
			debugCheckEvicted(s, "MarkOutdated")
		}
		return ErrSheetRemoved
	}
	p.markOutdatedLocked(s)
	return nil
}

func (p *Painter) markOutdatedLocked(s *Sheet) {
	switch {
	case s.busy:
		s.requeueRecolor = true
	case s.state == StateReady:
		s.state = StateOutdated
	default:
		return
	}
	p.reg.pending.Store(true)
}

// SetChoice replaces the chosen color of palette index i and schedules a
// recolor when it changed.
func (p *Painter) SetChoice(s *Sheet, i int, c RGB) error {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	if s.evicted {
		if p.debug.Load() {
			debugCheckEvicted(s, "SetChoice")
		}
		return ErrSheetRemoved
	}
	if i < 0 || i >= len(s.choices) {
		return ErrChoiceIndex
	}
	if s.choices[i] == c {
		return nil
	}
	s.choices[i] = c
	p.markOutdatedLocked(s)
	return nil
}

// ResetChoices maps every palette index of s back to its original color.
func (p *Painter) ResetChoices(s *Sheet) error {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	if s.evicted {
		if p.debug.Load() {
			debugCheckEvicted(s, "ResetChoices")
		}
		return ErrSheetRemoved
	}
	if slices.Equal(s.choices, []RGB(s.palette)) {
		return nil
	}
	s.choices = s.palette.IdentityChoices()
	p.markOutdatedLocked(s)
	return nil
}

// ResolveColorMod answers whether a color-modded variant exists for the
// logical path: the sheet must have finished setup, not be deleted, and its
// written color mod must not be older than the source.
func (p *Painter) ResolveColorMod(logical string) (string, bool) {
	if p.cfg.DestinationFolder == "" {
		return "", false
	}
	logical = cleanDestination(logical)
	p.reg.mu.RLock()
	s, ok := p.reg.sheets[logical]
	ready := ok && !s.deleted && s.presentable()
	p.reg.mu.RUnlock()
	if !ready || p.resolver.IsStale(logical) {
		return "", false
	}
	return p.resolver.ColorModPath(logical), true
}

// Tick runs one processing cycle. It must be called once per host frame or
// poll with a non-decreasing timestamp. When nothing is pending it returns
// at once without touching any image. Otherwise deleted sheets are purged,
// every sheet waiting for setup or recolor is processed, new sub-sprites are
// uploaded, and the scheduler timestamp moves to now. Invalidations that
// arrive while the pass runs are left for the next tick.
func (p *Painter) Tick(now uint64) TickReport {
	rep := TickReport{Timestamp: now}
	if !p.reg.pending.Load() {
		rep.Skipped = true
		return rep
	}
	if p.sched.ran && now <= p.sched.timestamp {
		rep.Skipped = true
		return rep
	}
	p.reg.pending.Store(false)

	var st tickStats
	t0 := time.Now()

	var events []SheetEvent
	rep.Purged += p.reg.PurgeDeleted(func(s *Sheet) {
		p.pres.releaseSheet(s)
		events = append(events, SheetEvent{Type: SheetPurged, Destination: s.destination, Timestamp: now})
	})
	jobs := p.collectJobs()
	st.collectTime = time.Since(t0)

	t0 = time.Now()
	p.runJobs(jobs)
	st.workTime = time.Since(t0)

	t0 = time.Now()
	events = append(events, p.commit(jobs, now, &rep)...)
	st.commitTime = time.Since(t0)

	t0 = time.Now()
	uploaded, uploadErrs := p.pres.syncRenderHandles()
	rep.Uploaded = uploaded
	for _, err := range uploadErrs {
		rep.Errors = append(rep.Errors, err)
		events = append(events, SheetEvent{Type: SheetFailed, Destination: errSheet(err), Timestamp: now, Err: err})
	}
	st.uploadTime = time.Since(t0)

	// Sheets deleted while the pass ran finish their uploads above and are
	// released here.
	rep.Purged += p.reg.PurgeDeleted(func(s *Sheet) {
		p.pres.releaseSheet(s)
		events = append(events, SheetEvent{Type: SheetPurged, Destination: s.destination, Timestamp: now})
	})

	p.sched.timestamp = now
	p.sched.ran = true

	for _, err := range rep.Errors {
		if p.OnError != nil {
			p.OnError(err)
		}
	}
	if p.sink != nil {
		for _, ev := range events {
			p.sink.EmitEvent(ev)
		}
	}
	st.report = rep
	p.debugLog(st)
	return rep
}

type jobKind uint8

const (
	jobSetup jobKind = iota
	jobRecolor
)

// job is the work for one sheet in one tick. Inputs are copied out of the
// sheet under the registry lock so workers never touch shared state.
type job struct {
	kind      jobKind
	sheet     *Sheet
	dest      string
	path      string
	layout    Layout
	source    *image.NRGBA
	palette   Palette
	choices   []RGB
	overrides map[int]RGB

	res        *jobResult
	err        error
	persistErr error
}

type jobResult struct {
	source   *image.NRGBA
	colorMod *image.NRGBA
	palette  Palette
	choices  []RGB
	sprites  []SubSprite
}

func (p *Painter) collectJobs() []*job {
	var jobs []*job
	for s := range p.reg.Outdated() {
		p.reg.mu.Lock()
		if s.evicted || s.deleted || !s.outdated() {
			p.reg.mu.Unlock()
			continue
		}
		j := &job{
			sheet:   s,
			dest:    s.destination,
			path:    s.sourcePath,
			layout:  p.layoutFor(s.destination),
			palette: s.palette,
			choices: slices.Clone(s.choices),
		}
		if s.state == StateSetup {
			j.kind = jobSetup
			if s.palette == nil {
				j.overrides = p.cfg.choiceOverrides(s.destination)
			}
		} else {
			j.kind = jobRecolor
			j.source = s.source
			s.state = StateRepainting
		}
		s.busy = true
		p.reg.mu.Unlock()
		jobs = append(jobs, j)
	}
	return jobs
}

func (p *Painter) runJobs(jobs []*job) {
	var g errgroup.Group
	g.SetLimit(max(1, p.cfg.Workers))
	for _, j := range jobs {
		g.Go(func() error {
			p.runJob(j)
			return nil
		})
	}
	_ = g.Wait()
}

// runJob performs decode, extraction, substitution and slicing for one sheet.
func (p *Painter) runJob(j *job) {
	src, palette, choices := j.source, j.palette, j.choices
	if j.kind == jobSetup {
		p.stats.decodes.Add(1)
		img, err := p.load(j.path)
		if err != nil {
			j.err = &DecodeError{Sheet: j.dest, Path: j.path, Err: err}
			return
		}
		src = img
		p.stats.extractions.Add(1)
		next := ExtractPalette(src)
		choices = carryChoices(next, palette, choices, j.overrides)
		palette = next
	}

	p.stats.substitutions.Add(1)
	mod, err := ApplyChoices(src, palette, choices)
	if err != nil {
		var pm *PaletteMismatchError
		if errors.As(err, &pm) {
			pm.Sheet = j.dest
		}
		j.err = err
		return
	}

	p.stats.slices.Add(1)
	sprites := sliceSprites(src, mod, j.layout.Cells(src.Rect.Size()), p.cfg.PreviewSize)

	j.res = &jobResult{
		source:   src,
		colorMod: mod,
		palette:  palette,
		choices:  choices,
		sprites:  sprites,
	}

	if p.cfg.DestinationFolder != "" {
		path := p.resolver.ColorModPath(j.dest)
		if err := SaveImage(path, mod); err != nil {
			j.persistErr = &PersistError{Sheet: j.dest, Path: path, Err: err}
		}
	}
}

// sliceSprites cuts the source and recolored sheets along cells and builds a
// preview for each recolored cell.
func sliceSprites(src, mod *image.NRGBA, cells []image.Rectangle, previewSize int) []SubSprite {
	out := make([]SubSprite, 0, len(cells))
	for _, c := range cells {
		cm := cropNRGBA(mod, c)
		out = append(out, SubSprite{
			Bounds:   c,
			Source:   cropNRGBA(src, c),
			ColorMod: cm,
			Preview:  PreviewImage(cm, previewSize),
		})
	}
	return out
}

// commit writes job results back into their sheets under the registry lock.
func (p *Painter) commit(jobs []*job, now uint64, rep *TickReport) []SheetEvent {
	var events []SheetEvent
	var evicted []*Sheet

	p.reg.mu.Lock()
	for _, j := range jobs {
		s := j.sheet
		s.busy = false

		if j.err != nil {
			var pm *PaletteMismatchError
			if errors.As(j.err, &pm) {
				p.reg.removeLocked(s)
				evicted = append(evicted, s)
				rep.Evicted++
				rep.Errors = append(rep.Errors, j.err)
				events = append(events, SheetEvent{Type: SheetEvicted, Destination: j.dest, Timestamp: now, Err: j.err})
				continue
			}
			if s.state == StateRepainting {
				s.state = StateOutdated
			}
			if s.requeueSetup {
				s.state = StateSetup
			}
			s.requeueSetup, s.requeueRecolor = false, false
			p.reg.pending.Store(true)
			if msg := j.err.Error(); msg != s.lastErr {
				s.lastErr = msg
				rep.Errors = append(rep.Errors, j.err)
				events = append(events, SheetEvent{Type: SheetFailed, Destination: j.dest, Timestamp: now, Err: j.err})
			}
			continue
		}

		r := j.res
		if j.kind == jobSetup {
			s.source = r.source
			s.palette = r.palette
			s.choices = r.choices
			rep.Setup++
		} else {
			rep.Repainted++
		}
		s.colorMod = r.colorMod
		s.sprites = r.sprites
		s.needsUpload = true
		s.lastErr = ""
		s.state = StateReady
		switch {
		case s.requeueSetup:
			s.state = StateSetup
			p.reg.pending.Store(true)
		case s.requeueRecolor:
			s.state = StateOutdated
			p.reg.pending.Store(true)
		}
		s.requeueSetup, s.requeueRecolor = false, false
		events = append(events, SheetEvent{Type: SheetReady, Destination: j.dest, Timestamp: now})

		if j.persistErr != nil {
			rep.Errors = append(rep.Errors, j.persistErr)
			events = append(events, SheetEvent{Type: SheetFailed, Destination: j.dest, Timestamp: now, Err: j.persistErr})
		}
	}
	p.reg.mu.Unlock()

	for _, s := range evicted {
		p.pres.releaseSheet(s)
		p.debugWarn("evicted sheet %q", s.destination)
	}
	return events
}

// Close releases every sheet and frees all handles, deferred ones included.
// The painter must not be used afterwards.
func (p *Painter) Close() {
	p.reg.mu.Lock()
	sheets := p.reg.all()
	for _, s := range sheets {
		p.reg.removeLocked(s)
	}
	p.reg.mu.Unlock()
	for _, s := range sheets {
		p.pres.releaseSheet(s)
	}
	p.pres.EndFrame()
}

// errSheet returns the sheet destination carried by one of the package
// error types.
func errSheet(err error) string {
	var (
		de *DecodeError
		pm *PaletteMismatchError
		ue *UploadError
		pe *PersistError
	)
	switch {
	case errors.As(err, &ue):
		return ue.Sheet
	case errors.As(err, &de):
		return de.Sheet
	case errors.As(err, &pm):
		return pm.Sheet
	case errors.As(err, &pe):
		return pe.Sheet
	}
	return ""
}

// cleanDestination normalizes a logical path into a registry key.
func cleanDestination(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
