//go:build !unix

package walker

import (
	"fmt"
	"os"
	"sync/atomic"

	"dupfind/internal/catalog"
)

// Without inode numbers every path gets its own identity, so hard links are
// compared like ordinary copies.
var nextID atomic.Uint64

func stat(path string) (*catalog.FileRecord, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("lstat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	return &catalog.FileRecord{
		Path: path,
		Ino:  nextID.Add(1),
		Size: info.Size(),
	}, nil
}
