// Package catalog buckets files by byte size in a left-leaning red-black
// tree, collapsing hard-link aliases as they are inserted.
package catalog

// Catalog is built once during traversal and drained once during
// verification. The zero value is an empty catalog ready for use.
type Catalog struct {
	root      *node
	sizes     int
	files     int
	collapsed int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Insert adds rec to the bucket for rec.Size. It returns false when the
// bucket already holds a record for the same device and inode.
func (c *Catalog) Insert(rec FileRecord) bool {
	var added bool
	c.root = c.insert(c.root, rec, &added)
	c.root.color = black

	if added {
		c.files++
	} else {
		c.collapsed++
	}
	return added
}

func (c *Catalog) insert(n *node, rec FileRecord, added *bool) *node {
	if n == nil {
		c.sizes++
		*added = true
		return &node{
			size:  rec.Size,
			files: []FileRecord{rec},
			color: red,
		}
	}

	if rec.Size == n.size {
		for _, f := range n.files {
			if f.SameFile(rec) {
				return n
			}
		}
		n.files = append(n.files, rec)
		*added = true
		return n
	}

	if isRed(n.left) && isRed(n.right) {
		n.flipColors()
	}

	if rec.Size < n.size {
		n.left = c.insert(n.left, rec, added)
	} else {
		n.right = c.insert(n.right, rec, added)
	}

	if isRed(n.right) && !isRed(n.left) {
		n = rotateLeft(n)
	}
	if isRed(n.left) && isRed(n.left.left) {
		n = rotateRight(n)
	}
	return n
}

// Len returns the number of distinct sizes in the catalog.
func (c *Catalog) Len() int {
	return c.sizes
}

// Files returns the number of records stored across all buckets.
func (c *Catalog) Files() int {
	return c.files
}

// Collapsed returns how many inserts were dropped as hard-link aliases.
func (c *Catalog) Collapsed() int {
	return c.collapsed
}

// Drain hands every bucket to fn in ascending size order and releases each
// node once fn returns. It stops at the first error. The catalog is empty,
// with all counters reset, whether or not an error occurred.
func (c *Catalog) Drain(fn func(Bucket) error) error {
	root := c.root
	c.root = nil
	c.sizes = 0
	c.files = 0
	c.collapsed = 0
	return drain(root, fn)
}

func drain(n *node, fn func(Bucket) error) error {
	if n == nil {
		return nil
	}
	left, right := n.left, n.right
	n.left, n.right = nil, nil

	if err := drain(left, fn); err != nil {
		return err
	}

	b := Bucket{Size: n.size, Files: n.files}
	n.files = nil
	if err := fn(b); err != nil {
		return err
	}

	return drain(right, fn)
}
