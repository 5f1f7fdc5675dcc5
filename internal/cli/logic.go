package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/largedir/internal/interrupt"
	"github.com/idelchi/largedir/internal/largedir"
)

// errorExit is the exit status used for cancellation and fatal
// traversal errors.
const errorExit = 1

func logic(options largedir.Options, config runConfig, paths []string) error {
	shutdown := &interrupt.Flag{}
	interrupt.Setup(shutdown)

	printer := NewPrinter(os.Stdout)

	enableProgress := options.StatusInterval > 0 && isatty.IsTerminal(os.Stderr.Fd())

	fmt.Fprintf(os.Stderr, "Using %d threads for calibration and scanning\n", options.Threads)

	// Scan each path once, preserving argument order
	seen := make(map[string]struct{}, len(paths))

	for _, root := range paths {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving path %q: %w", root, err)
		}

		if _, ok := seen[abs]; ok {
			continue
		}

		seen[abs] = struct{}{}

		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("accessing path %q: %w", abs, err)
		}

		if !info.IsDir() {
			return fmt.Errorf("path %q is not a directory", abs)
		}

		ratio := config.ratio
		if ratio == 0 {
			ratio, err = calibrateFor(abs, config, options.Threads, shutdown)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stderr, "Using size-to-entry ratio %d for %s\n", ratio, abs)

		walker, err := largedir.NewWalker(ratio, options, shutdown, printer.Print)
		if err != nil {
			return err
		}

		// Child context so the reporter stops when this path finishes
		ctx, cancel := context.WithCancel(context.Background())

		if enableProgress {
			// Hide cursor for in-place updates; restore after the walk.
			fmt.Fprint(os.Stderr, "\033[?25l")

			largedir.StartReporter(ctx, options.StatusInterval, walker.Visited, func(visited uint64) {
				fmt.Fprintf(os.Stderr, "\r\033[2KScanning %s… %s directories\r",
					abs, humanize.Comma(int64(visited))) //nolint:gosec // Counter fits in int64
			})
		}

		start := time.Now()
		visited, err := walker.Walk(abs)

		cancel()

		if enableProgress {
			fmt.Fprint(os.Stderr, "\r\033[2K\033[?25h")
		}

		if errors.Is(err, largedir.ErrCanceled) {
			fmt.Fprintln(os.Stderr, "Requested program exit, stopping scan...")

			os.Exit(errorExit)
		}

		if err != nil {
			return err
		}

		fmt.Printf("Scanned %s directories under %s in %v\n",
			humanize.Comma(int64(visited)), abs, //nolint:gosec // Counter fits in int64
			time.Since(start).Round(time.Millisecond))
	}

	return nil
}

// calibrateFor resolves where to calibrate for root, runs the
// calibration and cleans up the probe directory.
func calibrateFor(root string, config runConfig, threads int, shutdown *interrupt.Flag) (uint64, error) {
	base := root

	if config.calibrationPath != "" {
		base = config.calibrationPath

		// A probe on a foreign device measures the wrong filesystem.
		rootMeta, rootErr := largedir.Stat(root)
		baseMeta, baseErr := largedir.Stat(base)

		if rootErr == nil && baseErr == nil && rootMeta.Dev != baseMeta.Dev {
			fmt.Fprintf(os.Stderr,
				"Warning: calibration path %s resides on a different device than %s, results may be unreliable\n",
				base, root)
		}
	}

	probe, err := os.MkdirTemp(base, "largedir-calibrate-*")
	if err != nil {
		return 0, fmt.Errorf("creating calibration directory in %q: %w", base, err)
	}

	defer os.RemoveAll(probe)

	fmt.Fprintf(os.Stderr, "Running calibration in %s (%s files)...\n",
		probe, humanize.Comma(int64(config.calibrationCount))) //nolint:gosec // Flag-bounded count

	ratio, err := largedir.Calibrate(probe, config.calibrationCount, threads, shutdown)
	if err != nil {
		return 0, fmt.Errorf("calibrating in %q: %w", probe, err)
	}

	return ratio, nil
}
