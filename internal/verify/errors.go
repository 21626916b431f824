package verify

import (
	"errors"
	"fmt"
)

// ErrAllocation is returned when the bookkeeping for a bucket cannot be
// allocated.
var ErrAllocation = errors.New("allocation failed")

// IOError is returned when a candidate file cannot be opened, positioned or
// read during comparison.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("error %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
