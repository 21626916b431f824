//go:build unix

package walker

import (
	"fmt"

	"golang.org/x/sys/unix"

	"dupfind/internal/catalog"
)

// stat reads the identity of path without following a final symlink.
// It returns nil if path is no longer a regular file.
func stat(path string) (*catalog.FileRecord, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, fmt.Errorf("lstat %s: %w", path, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		return nil, nil
	}
	return &catalog.FileRecord{
		Path: path,
		Dev:  uint64(st.Dev),
		Ino:  uint64(st.Ino),
		Size: st.Size,
	}, nil
}
