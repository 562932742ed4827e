package spritepaint

import (
	"image"
	"slices"
)

// SheetState is the processing state of a registered sheet.
type SheetState uint8

const (
	StateSetup      SheetState = iota // registered, palette not extracted yet
	StateReady                        // derived data matches source and choices
	StateOutdated                     // choices changed, recolor pending
	StateRepainting                   // recolor in flight during a tick
)

func (s SheetState) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateReady:
		return "ready"
	case StateOutdated:
		return "outdated"
	case StateRepainting:
		return "repainting"
	default:
		return "unknown"
	}
}

// SubSprite is one cell of a sheet: the source pixels, the recolored pixels
// and a thumbnail of the recolored pixels.
type SubSprite struct {
	Bounds   image.Rectangle // cell rect on the sheet
	Source   *image.NRGBA
	ColorMod *image.NRGBA
	Preview  *image.NRGBA
}

// SpriteHandles are the backend handles of one sub-sprite, uploaded in the
// order Source, ColorMod, Preview.
type SpriteHandles struct {
	Source, ColorMod, Preview Handle
}

// Sheet is one registered color-mod sheet and everything derived from it.
// Fields are guarded by the owning Registry; read them through the accessor
// methods.
type Sheet struct {
	reg         *Registry
	sourcePath  string
	destination string

	state   SheetState
	deleted bool
	evicted bool

	// busy is set while a tick works on the sheet outside the registry lock.
	// Invalidations that arrive meanwhile are parked in the requeue flags.
	busy           bool
	requeueSetup   bool
	requeueRecolor bool

	source   *image.NRGBA
	colorMod *image.NRGBA
	sprites  []SubSprite
	palette  Palette
	choices  []RGB

	handles     []SpriteHandles
	needsUpload bool

	// lastErr holds the message of the last reported recoverable failure so
	// the same failure is not reported again on every retry.
	lastErr string
}

// SourcePath returns the physical source file of the sheet. Re-registration
// may change it from another goroutine.
func (s *Sheet) SourcePath() string {
	s.reg.mu.RLock()
	defer s.reg.mu.RUnlock()
	return s.sourcePath
}

// Destination returns the cache key of the sheet.
func (s *Sheet) Destination() string { return s.destination }

// presentable reports whether the sheet has finished setup at least once.
func (s *Sheet) presentable() bool {
	return s.colorMod != nil && len(s.palette) > 0
}

// outdated reports whether the sheet needs work on the next tick.
func (s *Sheet) outdated() bool {
	return !s.busy && (s.state == StateSetup || s.state == StateOutdated)
}

// SheetView is an immutable snapshot of a sheet taken under the registry
// lock. Slices are copies; images are shared and never mutated after commit.
type SheetView struct {
	Destination string
	SourcePath  string
	State       SheetState
	Deleted     bool
	Palette     Palette
	Choices     []RGB
	Source      *image.NRGBA
	ColorMod    *image.NRGBA
	Sprites     []SubSprite
	Handles     []SpriteHandles
}

func (s *Sheet) view() SheetView {
	return SheetView{
		Destination: s.destination,
		SourcePath:  s.sourcePath,
		State:       s.state,
		Deleted:     s.deleted,
		Palette:     slices.Clone(s.palette),
		Choices:     slices.Clone(s.choices),
		Source:      s.source,
		ColorMod:    s.colorMod,
		Sprites:     slices.Clone(s.sprites),
		Handles:     slices.Clone(s.handles),
	}
}
