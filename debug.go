package spritepaint

import (
	"fmt"
	"os"
	"time"
)

// tickStats holds per-tick timing and work counts.
// Only logged when the painter is in debug mode.
type tickStats struct {
	collectTime time.Duration
	workTime    time.Duration
	commitTime  time.Duration
	uploadTime  time.Duration
	report      TickReport
}

// debugLog prints tick stats to stderr.
func (p *Painter) debugLog(stats tickStats) {
	if !p.debug.Load() {
		return
	}
	total := stats.collectTime + stats.workTime + stats.commitTime + stats.uploadTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[spritepaint] tick %d | collect: %v | work: %v | commit: %v | upload: %v | total: %v\n",
		stats.report.Timestamp, stats.collectTime, stats.workTime, stats.commitTime, stats.uploadTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[spritepaint] setup: %d | repainted: %d | evicted: %d | purged: %d | errors: %d\n",
		stats.report.Setup, stats.report.Repainted, stats.report.Evicted, stats.report.Purged, len(stats.report.Errors))
}

// debugCheckEvicted panics when an evicted or purged sheet is handed back to
// the painter. Only called in debug mode; release builds ignore such calls.
func debugCheckEvicted(s *Sheet, op string) {
	if s.evicted {
		panic(fmt.Sprintf("spritepaint debug: %s on removed sheet %q", op, s.destination))
	}
}

// debugWarn prints a warning line to stderr in debug mode.
func (p *Painter) debugWarn(format string, args ...any) {
	if !p.debug.Load() {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[spritepaint] warning: "+format+"\n", args...)
}
