package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/largedir/internal/largedir"
)

// ANSI color escapes for classification severity.
const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// Printer renders classification events as human-readable lines.
// Print is called concurrently from walker goroutines, so output is
// serialized with a mutex.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer writing to out. Colors are enabled only
// when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}

	return &Printer{out: out, color: color}
}

// Print renders one event. Normal classifications produce no output.
func (p *Printer) Print(event largedir.Event) {
	var line string

	switch event.Class {
	case largedir.Blacklisted:
		line = fmt.Sprintf("Found very large directory %s with inode size %s, %s %s files",
			event.Path, humanize.IBytes(event.Size), qualifier(event),
			p.paint(ansiRed, humanize.Comma(int64(event.Entries)))) //nolint:gosec // Entry counts fit in int64
	case largedir.Alert:
		line = fmt.Sprintf("Found large directory %s with inode size %s, %s %s files",
			event.Path, humanize.IBytes(event.Size), qualifier(event),
			p.paint(ansiYellow, humanize.Comma(int64(event.Entries)))) //nolint:gosec // Entry counts fit in int64
	case largedir.SkippedBoundary:
		line = fmt.Sprintf("Identified filesystem boundary at %s, skipping...", event.Path)
	case largedir.SkippedExcluded:
		line = fmt.Sprintf("Skipping excluded directory %s", event.Path)
	case largedir.Normal:
		return
	default:
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, line)
}

// paint wraps s in the given color escape when colors are enabled.
func (p *Printer) paint(color, s string) string {
	if !p.color {
		return s
	}

	return color + s + ansiReset
}

// qualifier distinguishes exact accurate-mode counts from estimates.
func qualifier(event largedir.Event) string {
	if event.Exact {
		return "exactly"
	}

	return "approx"
}
