package syntax

// Path addresses a node by child indices starting at the root.
type Path []int

// WalkFunc is called for every significant node in pre-order. Returning
// false skips the node's descendants.
type WalkFunc func(n *Node, path Path) bool

// Walk visits the significant nodes below root in pre-order. The root itself
// is not visited. Paths handed to fn are never reused and may be retained.
func Walk(root *Node, fn WalkFunc) {
	if root == nil {
		return
	}

	walkChildren(root, Path{}, fn)
}

func walkChildren(n *Node, path Path, fn WalkFunc) {
	for i, child := range n.Children {
		if !child.IsSignificant() {
			continue
		}

		childPath := append(path[:len(path):len(path)], i)
		if fn(child, childPath) {
			walkChildren(child, childPath, fn)
		}
	}
}

// Locate returns the first node, in Walk order, whose position equals pos.
func Locate(root *Node, pos Position) (*Node, Path, bool) {
	var (
		found     *Node
		foundPath Path
	)

	if pos.IsZero() {
		return nil, nil, false
	}

	Walk(root, func(n *Node, path Path) bool {
		if found != nil {
			return false
		}

		if n.Pos == pos {
			found = n
			foundPath = path

			return false
		}

		return true
	})

	return found, foundPath, found != nil
}

// At returns the node addressed by path, or nil if the path is invalid.
func At(root *Node, path Path) *Node {
	node := root
	for _, i := range path {
		if node == nil || i < 0 || i >= len(node.Children) {
			return nil
		}

		node = node.Children[i]
	}

	return node
}
