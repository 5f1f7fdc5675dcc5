package largedir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/idelchi/largedir/internal/interrupt"
)

// errorExit is the exit status used when calibration is interrupted.
const errorExit = 1

// Calibrate measures the bytes-per-entry cost of directory storage on
// the device holding dir by creating exactly count zero-byte files in
// it and dividing the directory's resulting inode size by count.
//
// dir must be an empty, writable directory on the device of interest;
// the caller owns its creation and removal on the success path.
// Filenames are decimal indices to keep the filename contribution to
// the inode size minimal.
//
// The returned ratio uses truncating division, so it is biased low and
// downstream entry estimates are biased high. A computed ratio of zero
// (the directory inode did not grow, e.g. some tmpfs configurations)
// is rejected with ErrZeroRatio.
//
// When shutdown is set mid-creation the partial files and dir are
// removed and the process exits with a non-zero status: an interrupted
// calibration cannot be resumed or partially reported.
func Calibrate(dir string, count uint64, threads int, shutdown *interrupt.Flag) (uint64, error) {
	if count == 0 {
		return 0, ErrZeroCount
	}

	if threads < 1 {
		threads = runtime.NumCPU()
	}

	var (
		wg       sync.WaitGroup
		next     atomic.Uint64
		failed   atomic.Bool
		once     sync.Once
		firstErr error
	)

	for t := 0; t < threads; t++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				if shutdown.IsSet() || failed.Load() {
					return
				}

				i := next.Add(1) - 1
				if i >= count {
					return
				}

				f, err := os.Create(filepath.Join(dir, strconv.FormatUint(i, 10)))
				if err != nil {
					once.Do(func() { firstErr = err })
					failed.Store(true)

					return
				}

				f.Close()
			}
		}()
	}

	wg.Wait()

	if shutdown.IsSet() {
		fmt.Fprintln(os.Stderr, "Requested program exit, removing calibration files...")

		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Unable to remove calibration directory %q: %v\n", dir, err)
		}

		os.Exit(errorExit)
	}

	if firstErr != nil {
		return 0, fmt.Errorf("creating calibration file: %w", firstErr)
	}

	// The ratio needs the full file count; reaching here without error
	// guarantees it.
	meta, err := Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("reading calibration directory size: %w", err)
	}

	ratio := meta.Size / count
	if ratio == 0 {
		return 0, fmt.Errorf("calibrating %q (inode size %d, %d files): %w", dir, meta.Size, count, ErrZeroRatio)
	}

	return ratio, nil
}
