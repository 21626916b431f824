package catalog

// FileRecord identifies one regular file observed during traversal.
type FileRecord struct {
	Path string
	Dev  uint64
	Ino  uint64
	Size int64
}

// SameFile reports whether both records name the same physical file,
// i.e. one is a hard link of the other.
func (r FileRecord) SameFile(other FileRecord) bool {
	return r.Dev == other.Dev && r.Ino == other.Ino
}

// Bucket holds the distinct physical files sharing one exact size.
type Bucket struct {
	Size  int64
	Files []FileRecord
}
