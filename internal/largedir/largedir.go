package largedir

import (
	"errors"
	"time"
)

// Default thresholds and calibration size, matching the flag defaults.
const (
	// DefaultAlertThreshold is the estimated entry count above which a
	// directory is reported but still descended into.
	DefaultAlertThreshold = 10_000
	// DefaultBlacklistThreshold is the estimated entry count above which a
	// directory is reported and its subtree pruned.
	DefaultBlacklistThreshold = 100_000
	// DefaultCalibrationCount is the number of files created during
	// calibration.
	DefaultCalibrationCount = 100_000
	// DefaultStatusInterval is the default progress reporting cadence.
	DefaultStatusInterval = 500 * time.Millisecond
)

var (
	// ErrZeroRatio is returned when a size-to-entry ratio of zero is
	// supplied or computed. Entry estimation divides by the ratio, so a
	// zero ratio is rejected before any work starts.
	ErrZeroRatio = errors.New("size-to-entry ratio must be positive")

	// ErrZeroCount is returned when calibration is requested with a zero
	// file count.
	ErrZeroCount = errors.New("calibration file count must be positive")

	// ErrCanceled is returned by Walk when the shutdown flag was observed
	// during traversal. The visited count returned alongside it covers
	// the directories processed before the flag was seen.
	ErrCanceled = errors.New("walk canceled")
)

// Options configures a scan. It is read-only once handed to NewWalker
// and safe to share across walker goroutines without locking.
type Options struct {
	// AlertThreshold is the estimated entry count above which a directory
	// is classified Alert. Descent continues.
	AlertThreshold uint64
	// BlacklistThreshold is the estimated entry count above which a
	// directory is classified Blacklisted and its subtree pruned.
	// Setting it below AlertThreshold is not rejected, but makes the
	// Alert classification unreachable.
	BlacklistThreshold uint64
	// OneFilesystem prunes directories on a different device than the
	// walk root.
	OneFilesystem bool
	// Accurate re-derives the entry count of Alert/Blacklisted
	// directories by an exact listing. Display only: the prune decision
	// always uses the estimate.
	Accurate bool
	// SkipPaths are directories excluded from descent unconditionally.
	// Compared after normalization to absolute cleaned paths.
	SkipPaths []string
	// Threads is the walker/calibration worker count (<1 means NumCPU).
	Threads int
	// StatusInterval controls progress reporting cadence (0 disables).
	StatusInterval time.Duration
}

// Classification is the walker's verdict for one visited directory.
type Classification int

const (
	// Normal directories are below both thresholds; descent continues.
	Normal Classification = iota
	// Alert directories exceed the alert threshold; descent continues.
	Alert
	// Blacklisted directories exceed the blacklist threshold; the
	// subtree is pruned.
	Blacklisted
	// SkippedBoundary directories sit on a foreign device with
	// OneFilesystem set; the subtree is pruned.
	SkippedBoundary
	// SkippedExcluded directories match a SkipPaths entry; the subtree
	// is pruned.
	SkippedExcluded
)

// String returns a short lower-case name for the classification.
func (c Classification) String() string {
	switch c {
	case Normal:
		return "normal"
	case Alert:
		return "alert"
	case Blacklisted:
		return "blacklisted"
	case SkippedBoundary:
		return "boundary"
	case SkippedExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Event describes one visited directory. Events are produced inside
// walker goroutines and handed to the emit callback; they are not
// retained by the walker.
type Event struct {
	// Path is the directory's path as walked.
	Path string
	// Size is the directory's raw inode size in bytes.
	Size uint64
	// Entries is the estimated entry count, or the exact count when
	// Exact is set.
	Entries uint64
	// Exact reports whether Entries came from a full listing rather
	// than the size/ratio estimate.
	Exact bool
	// Class is the classification verdict.
	Class Classification
}

// Meta holds the two pieces of directory metadata the walker needs:
// the device identifier and the raw inode size in bytes.
type Meta struct {
	Dev  uint64
	Size uint64
}
