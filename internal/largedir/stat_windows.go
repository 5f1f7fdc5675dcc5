//go:build windows

package largedir

import "os"

// Stat returns directory metadata on Windows. NTFS reports no useful
// st_size for directories and no dev field, so size-based estimation
// degrades to zero estimates and device boundaries are never detected.
func Stat(path string) (Meta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Meta{}, err
	}

	return Meta{Size: uint64(info.Size())}, nil
}
