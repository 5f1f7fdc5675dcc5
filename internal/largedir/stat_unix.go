//go:build !windows

package largedir

import (
	"os"
	"syscall"
)

// Stat returns the device identifier and raw inode size of path.
// For directories, st_size grows with the number of entries, which is
// what the estimator relies on.
func Stat(path string) (Meta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Meta{}, err
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Meta{Size: uint64(info.Size())}, nil
	}

	return Meta{
		Dev:  uint64(stat.Dev),
		Size: uint64(stat.Size),
	}, nil
}
