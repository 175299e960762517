//go:build linux

package img

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves the image's blocks up front where the filesystem
// supports it, falling back to a sparse truncate.
func preallocate(f *os.File, size int64) error {
	if err := unix.Fallocate(int(f.Fd()), 0, 0, size); err == nil {
		return nil
	}
	return f.Truncate(size)
}
