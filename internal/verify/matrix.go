package verify

import (
	"fmt"
	"math"
)

// prefixMatrix records, for each pair i<j, how many leading bytes have
// been confirmed equal.
type prefixMatrix struct {
	n     int
	cells []int64
}

func newPrefixMatrix(n int) (m *prefixMatrix, err error) {
	if n > 0 && n > math.MaxInt/n {
		return nil, fmt.Errorf("%w: %d x %d prefix matrix", ErrAllocation, n, n)
	}

	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	return &prefixMatrix{n: n, cells: make([]int64, n*n)}, nil
}

func (m *prefixMatrix) get(i, j int) int64 {
	return m.cells[i*m.n+j]
}

func (m *prefixMatrix) add(i, j int, delta int64) {
	m.cells[i*m.n+j] += delta
}

// skip looks at every earlier row for columns i and j. If any row measured
// a different prefix for i than for j, the pair cannot match. Otherwise it
// returns the longest prefix already known identical for both.
func (m *prefixMatrix) skip(i, j int) (int64, bool) {
	var longest int64
	for pr := 0; pr < i; pr++ {
		pi := m.get(pr, i)
		if pi != m.get(pr, j) {
			return 0, false
		}
		if pi > longest {
			longest = pi
		}
	}
	return longest, true
}
