// Package spritepaint keeps user-recolored sprite sheets ("color mods") in
// sync with their source images for [Ebitengine] hosts.
//
// A sheet is registered under its destination path, decoded once, and its
// visible colors are collected into a [Palette] in first-seen order. The
// user picks a replacement for each palette entry; the sheet is then
// recolored pixel by pixel, cut into sub-sprites along a [Layout], given
// preview thumbnails, uploaded to a [Backend] and written to the destination
// folder.
//
// # Quick start
//
//	cfg := spritepaint.DefaultConfig()
//	cfg.SourceFolder = "Mods/Packs/MyMod"
//	cfg.DestinationFolder = "Mods/.db/MyMod"
//
//	backend := spritepaint.NewEbitenBackend()
//	painter := spritepaint.NewPainter(cfg, backend)
//	painter.FinalizeSetup()
//
// Then, from the host's ebiten.Game:
//
//	func (g *Game) Update() error {
//		g.frameNo++
//		g.painter.Tick(g.frameNo)
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		pres := g.painter.Presenter()
//		if pres.NeedsDraw() {
//			g.frame.Begin(screen, 1.0/60)
//			pres.Draw(g.frame)
//		}
//		pres.EndFrame()
//	}
//
// # Scheduling
//
// Registrations and color edits only flag sheets. All image work happens in
// [Painter.Tick], at most one pass per timestamp, so a burst of invalidations
// within a frame costs one recolor per sheet. A tick with nothing pending
// returns without touching any image.
//
// New sources go through setup (decode, palette extraction, recolor, slice).
// Color edits only recolor with the existing palette. Re-registering a sheet
// as outdated is the way to make it extract its palette again; choices for
// colors that survive carry over.
//
// # Failures
//
// Failures are per sheet and never abort a pass. A sheet that fails to
// decode is retried on the next tick. A sheet whose pixels stop matching its
// palette is evicted. A rejected upload keeps the previous handles. See
// [DecodeError], [PaletteMismatchError], [UploadError] and [PersistError].
//
// [Ebitengine]: https://ebitengine.org
package spritepaint
