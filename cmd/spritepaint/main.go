// Spritepaint recolors color-mod sprite sheets. With a window it shows one
// color picker per palette entry of every sheet; with -headless it applies an
// edit script and writes the recolored sheets.
//
//	spritepaint -config spritepaint.toml
//	spritepaint -config spritepaint.toml -headless -script edits.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/spritepaint"
)

const (
	windowTitle = "spritepaint"
	screenW     = 800
	screenH     = 600

	// headlessMaxFrames bounds a headless run whose script never finishes,
	// for example because a sheet it targets fails to decode.
	headlessMaxFrames = 10000
)

type game struct {
	painter *spritepaint.Painter
	frame   *spritepaint.EbitenFrame
	script  *spritepaint.EditScript
	tick    uint64
}

func (g *game) Update() error {
	g.tick++
	if g.script != nil {
		if err := g.script.Step(g.painter); err != nil {
			log.Printf("spritepaint: %v", err)
		}
	}
	g.painter.Tick(g.tick)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	pres := g.painter.Presenter()
	if pres.NeedsDraw() {
		g.frame.Begin(screen, float32(1.0/float64(ebiten.TPS())))
		pres.Draw(g.frame)
	}
	pres.EndFrame()
}

func (g *game) Layout(w, h int) (int, int) {
	return w, h
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	scriptPath := flag.String("script", "", "JSON edit script to replay")
	headless := flag.Bool("headless", false, "apply the edit script without opening a window")
	flag.Parse()

	cfg := spritepaint.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = spritepaint.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	var script *spritepaint.EditScript
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		if script, err = spritepaint.LoadEditScript(data); err != nil {
			log.Fatal(err)
		}
	}

	if *headless {
		if err := runHeadless(cfg, script); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := runWindow(cfg, script); err != nil {
		log.Fatal(err)
	}
}

func newPainter(cfg spritepaint.Config, backend spritepaint.Backend) (*spritepaint.Painter, error) {
	p := spritepaint.NewPainter(cfg, backend)
	p.OnError = func(err error) {
		log.Print(err)
	}
	n, err := p.FinalizeSetup()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.SourceFolder, err)
	}
	log.Printf("spritepaint: registered %d sheets from %s", n, cfg.SourceFolder)
	return p, nil
}

func runWindow(cfg spritepaint.Config, script *spritepaint.EditScript) error {
	backend := spritepaint.NewEbitenBackend()
	p, err := newPainter(cfg, backend)
	if err != nil {
		return err
	}
	defer p.Close()

	w, err := spritepaint.NewWatcher(p)
	if err != nil {
		return err
	}
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("spritepaint: watcher: %v", err)
		}
	}()

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{
		painter: p,
		frame:   spritepaint.NewEbitenFrame(backend),
		script:  script,
	})
}

// headlessBackend accepts every upload without keeping pixels.
type headlessBackend struct {
	next spritepaint.Handle
}

func (b *headlessBackend) Upload(img image.Image) (spritepaint.Handle, error) {
	b.next++
	return b.next, nil
}

func (b *headlessBackend) Free(spritepaint.Handle) {}

func runHeadless(cfg spritepaint.Config, script *spritepaint.EditScript) error {
	if cfg.DestinationFolder == "" {
		return errors.New("headless mode needs destination_folder in the config")
	}
	p, err := newPainter(cfg, &headlessBackend{})
	if err != nil {
		return err
	}
	defer p.Close()

	var tick uint64
	for tick < headlessMaxFrames {
		tick++
		if script != nil {
			if err := script.Step(p); err != nil {
				log.Printf("spritepaint: %v", err)
			}
		}
		rep := p.Tick(tick)
		p.Presenter().EndFrame()
		if rep.Skipped && (script == nil || script.Done()) {
			return nil
		}
	}
	return fmt.Errorf("edit script did not finish after %d frames", headlessMaxFrames)
}
