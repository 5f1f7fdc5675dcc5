package largedir

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/idelchi/largedir/internal/interrupt"
)

// Walker traverses a directory tree in parallel and classifies every
// directory from its cached metadata alone, without listing it.
//
// A Walker is built for one ratio/config pair and may be reused for
// multiple Walk calls; the visited counter is scoped to a single walk
// and resets when a new one starts.
type Walker struct {
	opts     Options
	ratio    uint64
	skip     map[string]struct{}
	shutdown *interrupt.Flag
	emit     func(Event)
	visited  atomic.Uint64

	// Seams for tests: metadata and exact-count reads. Default to the
	// platform Stat and an os.ReadDir listing.
	statDir func(string) (Meta, error)
	listDir func(string) (uint64, error)
}

// NewWalker returns a Walker applying ratio and opts. Classification
// events are delivered to emit from arbitrary worker goroutines; a nil
// emit discards them. ErrZeroRatio is returned before any work when
// ratio is zero.
func NewWalker(ratio uint64, opts Options, shutdown *interrupt.Flag, emit func(Event)) (*Walker, error) {
	if ratio == 0 {
		return nil, ErrZeroRatio
	}

	if emit == nil {
		emit = func(Event) {}
	}

	skip := make(map[string]struct{}, len(opts.SkipPaths))

	for _, p := range opts.SkipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("normalizing skip path %q: %w", p, err)
		}

		skip[abs] = struct{}{}
	}

	return &Walker{
		opts:     opts,
		ratio:    ratio,
		skip:     skip,
		shutdown: shutdown,
		emit:     emit,
		statDir:  Stat,
		listDir:  countEntries,
	}, nil
}

// Visited returns the number of directories classified so far in the
// current walk. Safe to call concurrently with Walk; the progress
// reporter polls it.
func (w *Walker) Visited() uint64 {
	return w.visited.Load()
}

// Walk traverses the tree rooted at root and returns the number of
// directories visited. Sibling and cousin directories are processed
// concurrently with no ordering guarantee.
//
// Per-directory metadata failures skip that one node silently; an
// error from the traversal engine itself aborts the walk and is
// returned. When the shutdown flag is observed the walk stops within
// one node boundary and ErrCanceled is returned alongside the count so
// far; the caller decides exit behavior.
func (w *Walker) Walk(root string) (uint64, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return 0, fmt.Errorf("resolving root %q: %w", root, err)
	}

	rootMeta, err := w.statDir(root)
	if err != nil {
		return 0, fmt.Errorf("reading root metadata for %q: %w", root, err)
	}

	w.visited.Store(0)

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: w.opts.Threads,
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if w.shutdown.IsSet() {
			return fs.SkipAll
		}

		if err != nil {
			return nil // Unreadable entry, skip
		}

		if !d.IsDir() {
			return nil
		}

		return w.visit(path, rootMeta.Dev)
	})

	if w.shutdown.IsSet() {
		return w.visited.Load(), ErrCanceled
	}

	if walkErr != nil {
		return w.visited.Load(), fmt.Errorf("walking %q: %w", root, walkErr)
	}

	return w.visited.Load(), nil
}

// visit classifies one directory and decides descent. Exactly one
// counter increment per classified node; nodes whose metadata cannot
// be read are neither counted nor classified and do not stop the walk.
func (w *Walker) visit(path string, rootDev uint64) error {
	if _, ok := w.skip[path]; ok {
		w.visited.Add(1)
		w.emit(Event{Path: path, Class: SkippedExcluded})

		return fastwalk.SkipDir
	}

	meta, err := w.statDir(path)
	if err != nil {
		return nil //nolint:nilerr // Transient per-node error, keep walking
	}

	if w.opts.OneFilesystem && meta.Dev != rootDev {
		w.visited.Add(1)
		w.emit(Event{Path: path, Size: meta.Size, Class: SkippedBoundary})

		return fastwalk.SkipDir
	}

	entries := meta.Size / w.ratio

	switch {
	case entries > w.opts.BlacklistThreshold:
		w.visited.Add(1)
		w.emit(w.observe(path, meta, entries, Blacklisted))

		return fastwalk.SkipDir
	case entries > w.opts.AlertThreshold:
		w.visited.Add(1)
		w.emit(w.observe(path, meta, entries, Alert))
	default:
		w.visited.Add(1)
		w.emit(Event{Path: path, Size: meta.Size, Entries: entries, Class: Normal})
	}

	return nil
}

// observe builds the event for a flagged directory. In accurate mode
// the entry count is re-derived by an exact listing; this is display
// only and never changes the prune decision already taken from the
// estimate.
func (w *Walker) observe(path string, meta Meta, entries uint64, class Classification) Event {
	ev := Event{Path: path, Size: meta.Size, Entries: entries, Class: class}

	if w.opts.Accurate {
		if n, err := w.listDir(path); err == nil {
			ev.Entries = n
			ev.Exact = true
		}
	}

	return ev
}

// countEntries lists a directory and returns its entry count.
func countEntries(path string) (uint64, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}

	return uint64(len(entries)), nil
}
