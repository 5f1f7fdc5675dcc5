package largedir

import (
	"errors"
	"os"
	"testing"

	"github.com/idelchi/largedir/internal/interrupt"
)

func TestCalibrateZeroCount(t *testing.T) {
	_, err := Calibrate(t.TempDir(), 0, 2, &interrupt.Flag{})
	if !errors.Is(err, ErrZeroCount) {
		t.Fatalf("Calibrate error = %v, want ErrZeroCount", err)
	}
}

func TestCalibrateCreatesAllFiles(t *testing.T) {
	dir := t.TempDir()

	const count = 300

	ratio, err := Calibrate(dir, count, 4, &interrupt.Flag{})

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}

	if len(entries) != count {
		t.Errorf("created %d files, want %d", len(entries), count)
	}

	meta, statErr := Stat(dir)
	if statErr != nil {
		t.Fatalf("Stat: %v", statErr)
	}

	// Directory inode growth is filesystem-dependent: on filesystems
	// whose directory size does not grow the calibration must refuse a
	// zero ratio, otherwise the ratio is the floor division of the
	// measured size.
	if meta.Size/count == 0 {
		if !errors.Is(err, ErrZeroRatio) {
			t.Fatalf("Calibrate error = %v, want ErrZeroRatio for inode size %d", err, meta.Size)
		}

		return
	}

	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}

	if want := meta.Size / count; ratio != want {
		t.Errorf("ratio = %d, want %d (size %d / count %d)", ratio, want, meta.Size, count)
	}
}

func TestCalibrateFileNamesAreShortIndices(t *testing.T) {
	dir := t.TempDir()

	_, err := Calibrate(dir, 10, 2, &interrupt.Flag{})
	if err != nil && !errors.Is(err, ErrZeroRatio) {
		t.Fatalf("Calibrate: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if len(e.Name()) > 2 {
			t.Errorf("filename %q longer than expected for 10 files", e.Name())
		}

		if seen[e.Name()] {
			t.Errorf("duplicate filename %q", e.Name())
		}

		seen[e.Name()] = true
	}
}

func TestCalibrateUnwritableDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	t.Cleanup(func() { os.Chmod(dir, 0o700) })

	_, err := Calibrate(dir, 10, 2, &interrupt.Flag{})
	if err == nil {
		t.Fatal("Calibrate succeeded in an unwritable directory")
	}
}

func TestCalibrateRatioStableWhenCountDoubles(t *testing.T) {
	const count = 1000

	single, err := Calibrate(t.TempDir(), count, 4, &interrupt.Flag{})
	if errors.Is(err, ErrZeroRatio) {
		t.Skip("directory inode size does not grow on this filesystem")
	}

	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}

	doubled, err := Calibrate(t.TempDir(), 2*count, 4, &interrupt.Flag{})
	if err != nil {
		t.Fatalf("Calibrate with doubled count: %v", err)
	}

	// With constant per-entry overhead the two ratios agree up to
	// rounding: floor division plus the filesystem's block-granular
	// directory growth can shift each by a few bytes per entry.
	diff := single - doubled
	if doubled > single {
		diff = doubled - single
	}

	tolerance := uint64(1 + 2*4096/count)
	if diff > tolerance {
		t.Errorf("ratio %d with %d files vs %d with %d files, want within %d",
			single, count, doubled, 2*count, tolerance)
	}
}
