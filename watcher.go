package spritepaint

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher turns filesystem changes under the source folder into sheet
// registrations: writes mark a sheet outdated, removals mark it deleted.
type Watcher struct {
	p    *Painter
	root string
	fsw  *fsnotify.Watcher

	// OnError receives watcher errors. They are never fatal.
	OnError func(err error)
}

// NewWatcher watches the painter's source folder and all folders below it.
func NewWatcher(p *Painter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{p: p, root: p.resolver.SourceFolder, fsw: fsw}
	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(full)
		}
		return nil
	})
}

// Run forwards events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.report(err)
			}
			return
		}
	}
	if !isSheetFile(ev.Name) {
		return
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || !IsColorModSheet(rel) {
		return
	}
	dest := destinationFor(rel)
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if _, ok := w.p.Lookup(dest); ok {
			w.p.RegisterSheet(ev.Name, dest, false, true)
		}
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.p.RegisterSheet(ev.Name, dest, true, false)
	}
}

func (w *Watcher) report(err error) {
	if w.OnError != nil {
		w.OnError(err)
		return
	}
	w.p.debugWarn("watcher: %v", err)
}
