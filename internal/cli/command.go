package cli

import (
	"fmt"
	"runtime"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/largedir/internal/largedir"
)

// MaxThreads bounds the worker count accepted from the command line.
const MaxThreads = 1024

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// runConfig carries the calibration-related settings that never reach
// the walker.
type runConfig struct {
	ratio            uint64
	calibrationCount uint64
	calibrationPath  string
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	var (
		options largedir.Options
		config  runConfig
	)

	cmd := &cobra.Command{
		Use:     "largedir [flags] path...",
		Short:   "Find anomalously large directories without listing them",
		Version: c.version,
		Long: heredoc.Doc(`
			largedir detects anomalously large directories across filesystem trees
			without paying the cost of fully listing every directory.

			For each path it first calibrates a size-to-entry ratio for the device by
			mass-creating small files in a temporary directory, then walks the tree in
			parallel, estimating each directory's entry count from its raw inode size
			alone. Directories above the alert threshold are reported; directories
			above the blacklist threshold are reported and not descended into.

			The ratio is device-specific. Supplying --ratio skips calibration;
			--calibration-path places the temporary probe directory elsewhere (it
			should reside on the same device as the scanned path).

			Setting --blacklist-threshold below --alert-threshold is accepted but
			makes the alert classification unreachable.
		`),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if options.Threads < 1 {
				options.Threads = runtime.NumCPU()
			}

			if options.Threads > MaxThreads {
				return fmt.Errorf("thread count %d exceeds maximum %d", options.Threads, MaxThreads)
			}

			if config.ratio == 0 && config.calibrationCount == 0 {
				return largedir.ErrZeroCount
			}

			return logic(options, config, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&options.Accurate, "accurate", "a", false,
		"Re-derive flagged directory counts by exact listing (display only)")
	flags.BoolVarP(&options.OneFilesystem, "one-filesystem", "o", true,
		"Do not cross filesystem boundaries")
	flags.Uint64VarP(&options.AlertThreshold, "alert-threshold", "A", largedir.DefaultAlertThreshold,
		"Estimated entry count that triggers a warning")
	flags.Uint64VarP(&options.BlacklistThreshold, "blacklist-threshold", "B", largedir.DefaultBlacklistThreshold,
		"Estimated entry count that triggers a severe warning and prunes the subtree")
	flags.StringSliceVarP(&options.SkipPaths, "skip-path", "s", nil,
		"Directories to never scan (repeatable)")
	flags.IntVarP(&options.Threads, "threads", "j", runtime.NumCPU(),
		"Worker threads for calibration and scanning")
	flags.DurationVar(&options.StatusInterval, "status-interval", largedir.DefaultStatusInterval,
		"Progress reporting interval (0 disables)")
	flags.Uint64VarP(&config.calibrationCount, "calibration-count", "c", largedir.DefaultCalibrationCount,
		"Number of files to create during calibration")
	flags.StringVarP(&config.calibrationPath, "calibration-path", "t", "",
		"Directory in which to create the calibration probe (defaults to each scanned path)")
	flags.Uint64VarP(&config.ratio, "ratio", "r", 0,
		"Size-to-entry ratio to use instead of calibrating (0 = calibrate)")

	flags.SortFlags = false

	return cmd.Execute()
}
