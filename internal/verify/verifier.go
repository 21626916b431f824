// Package verify confirms which same-size files are byte-for-byte identical.
package verify

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"

	"dupfind/internal/catalog"
)

// DefaultChunkSize is the number of bytes read from each file per step.
const DefaultChunkSize = 1024

// Group is a set of files proven identical. Files are ordered most recently
// confirmed first.
type Group struct {
	Size  int64
	Files []catalog.FileRecord
}

// File is the subset of *os.File needed to compare content.
type File interface {
	io.ReadSeekCloser
}

// Opener opens a candidate file for reading.
type Opener func(path string) (File, error)

func openFile(path string) (File, error) {
	return os.Open(path)
}

// Stats counts the work done across all verified buckets.
type Stats struct {
	Buckets       int
	PairsCompared int
	PairsInferred int
	BytesRead     int64
	BytesSkipped  int64
}

// Verifier compares the members of a bucket. It is not safe for concurrent use.
type Verifier struct {
	chunkSize int
	open      Opener
	log       zerolog.Logger
	stats     Stats

	ibuf, jbuf []byte
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithChunkSize sets the comparison chunk size. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.chunkSize = n
		}
	}
}

// WithOpener replaces os.Open for reading candidates.
func WithOpener(open Opener) Option {
	return func(v *Verifier) {
		if open != nil {
			v.open = open
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Verifier) {
		v.log = log
	}
}

func New(opts ...Option) *Verifier {
	v := &Verifier{
		chunkSize: DefaultChunkSize,
		open:      openFile,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Stats returns the counters accumulated so far.
func (v *Verifier) Stats() Stats {
	return v.stats
}

// Verify returns the duplicate groups found in b, in discovery order.
// Records not placed in a group are dropped. Any I/O failure aborts the
// whole bucket.
func (v *Verifier) Verify(b catalog.Bucket) ([]Group, error) {
	v.stats.Buckets++

	n := len(b.Files)
	if n < 2 {
		return nil, nil
	}
	if b.Size == 0 {
		files := make([]catalog.FileRecord, n)
		copy(files, b.Files)
		return []Group{{Size: 0, Files: files}}, nil
	}

	m, err := newPrefixMatrix(n)
	if err != nil {
		return nil, err
	}
	resolved := make([]bool, n)
	if len(v.ibuf) != v.chunkSize {
		v.ibuf = make([]byte, v.chunkSize)
		v.jbuf = make([]byte, v.chunkSize)
	}

	var groups []Group
	for i := 0; i < n-1; i++ {
		if resolved[i] {
			continue
		}

		var group *Group
		for j := i + 1; j < n; j++ {
			if resolved[j] {
				continue
			}

			offset, ok := m.skip(i, j)
			if !ok {
				v.stats.PairsInferred++
				v.log.Debug().
					Str("a", b.Files[i].Path).
					Str("b", b.Files[j].Path).
					Msg("skipping pair, prefix lengths differ")
				continue
			}

			same, err := v.comparePair(b.Files[i], b.Files[j], offset, func(delta int64) {
				m.add(i, j, delta)
			})
			if err != nil {
				return nil, err
			}
			if !same {
				continue
			}

			if group == nil {
				group = &Group{Size: b.Size}
			}
			if !resolved[i] {
				group.Files = append(group.Files, b.Files[i])
			}
			group.Files = append(group.Files, b.Files[j])
			resolved[i] = true
			resolved[j] = true
		}

		if group != nil {
			reverse(group.Files)
			groups = append(groups, *group)
		}
	}

	return groups, nil
}

// comparePair reports whether a and b have identical content from offset to
// the end. confirmed is called with the length of every equal chunk.
func (v *Verifier) comparePair(a, b catalog.FileRecord, offset int64, confirmed func(int64)) (same bool, err error) {
	v.stats.PairsCompared++

	fa, err := v.open(a.Path)
	if err != nil {
		return false, &IOError{Op: "opening", Path: a.Path, Err: err}
	}
	defer closeFile(fa, a.Path, &err)

	fb, err := v.open(b.Path)
	if err != nil {
		return false, &IOError{Op: "opening", Path: b.Path, Err: err}
	}
	defer closeFile(fb, b.Path, &err)

	if offset > 0 {
		v.log.Debug().
			Int64("offset", offset).
			Str("a", a.Path).
			Str("b", b.Path).
			Msg("skipping known identical prefix")
		if _, err := fa.Seek(offset, io.SeekStart); err != nil {
			return false, &IOError{Op: "seeking in", Path: a.Path, Err: err}
		}
		if _, err := fb.Seek(offset, io.SeekStart); err != nil {
			return false, &IOError{Op: "seeking in", Path: b.Path, Err: err}
		}
		v.stats.BytesSkipped += 2 * offset
	}

	for {
		na, err := readChunk(fa, v.ibuf)
		if err != nil {
			return false, &IOError{Op: "reading", Path: a.Path, Err: err}
		}
		nb, err := readChunk(fb, v.jbuf)
		if err != nil {
			return false, &IOError{Op: "reading", Path: b.Path, Err: err}
		}
		v.stats.BytesRead += int64(na + nb)

		if na != nb {
			return false, nil
		}
		if !bytes.Equal(v.ibuf[:na], v.jbuf[:nb]) {
			return false, nil
		}

		confirmed(int64(na))
		if na == 0 {
			return true, nil
		}
	}
}

// readChunk fills buf as far as the file allows. Hitting end of file is not
// an error; the short count tells the caller.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}

func closeFile(f File, path string, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = &IOError{Op: "closing", Path: path, Err: cerr}
	}
}

func reverse(files []catalog.FileRecord) {
	for l, r := 0, len(files)-1; l < r; l, r = l+1, r-1 {
		files[l], files[r] = files[r], files[l]
	}
}
