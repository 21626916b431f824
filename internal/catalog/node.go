package catalog

type color uint8

const (
	black color = iota
	red
)

type node struct {
	size  int64
	files []FileRecord
	left  *node
	right *node
	color color
}

func isRed(n *node) bool {
	return n != nil && n.color == red
}

func (n *node) flipColors() {
	n.color = red
	n.left.color = black
	n.right.color = black
}

func rotateLeft(h *node) *node {
	x := h.right
	h.right = x.left
	x.left = h
	x.color = h.color
	h.color = red
	return x
}

func rotateRight(h *node) *node {
	x := h.left
	h.left = x.right
	x.right = h
	x.color = h.color
	h.color = red
	return x
}
