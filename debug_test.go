package spritepaint

import (
	"bytes"
	"image"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestDebugMode_TickStats(t *testing.T) {
	p, _ := newTestPainter(t, map[string]*image.NRGBA{"a_col.png": sheetA()})
	p.SetDebugMode(true)
	p.RegisterSheet("a_col.png", "a.png", false, false)

	output := captureStderr(t, func() { p.Tick(7) })
	if !strings.Contains(output, "[spritepaint] tick 7") {
		t.Errorf("expected tick timing line, got: %q", output)
	}
	if !strings.Contains(output, "setup: 1") {
		t.Errorf("expected setup count, got: %q", output)
	}
}

func TestDebugMode_SkippedTickIsSilent(t *testing.T) {
	p, _ := newTestPainter(t, nil)
	p.SetDebugMode(true)
	output := captureStderr(t, func() { p.Tick(1) })
	if output != "" {
		t.Errorf("skipped tick printed %q", output)
	}
}

func TestDebugMode_OffIsSilent(t *testing.T) {
	p, _ := newTestPainter(t, map[string]*image.NRGBA{"a_col.png": sheetA()})
	p.RegisterSheet("a_col.png", "a.png", false, false)
	output := captureStderr(t, func() {
		p.Tick(1)
		p.debugWarn("should not print")
	})
	if output != "" {
		t.Errorf("expected no output without debug mode, got: %q", output)
	}
}

func TestDebugMode_EvictionWarning(t *testing.T) {
	p, _ := newTestPainter(t, map[string]*image.NRGBA{"a_col.png": sheetA()})
	p.SetDebugMode(true)
	p.RegisterSheet("a_col.png", "a.png", false, false)
	p.Tick(1)

	// Swap the source for one with a color the palette never saw, then
	// force a recolor without re-extraction.
	s := mustLookup(t, p, "a.png")
	p.reg.mu.Lock()
	s.source = makeImage(1, 1, opaque(yellow))
	p.reg.mu.Unlock()
	if err := p.MarkOutdated(s); err != nil {
		t.Fatal(err)
	}

	output := captureStderr(t, func() { p.Tick(2) })
	if !strings.Contains(output, `warning: evicted sheet "a.png"`) {
		t.Errorf("expected eviction warning, got: %q", output)
	}
}
