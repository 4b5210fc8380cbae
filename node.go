// Package hashlife implements Conway's Game of Life on an unbounded
// two-dimensional grid using the HashLife algorithm: a hash-consed quadtree
// of immutable nodes plus memoized forward-time evolution. Structurally
// identical subtrees are canonicalized to a single shared allocation, so
// repeating patterns cost O(1) amortized per occurrence instead of per cell.
package hashlife

import "fmt"

// Dim is the coordinate and population type used throughout the package.
type Dim = int64

// Node is an immutable quadtree node: either a single cell (Level 0) or a
// 2x2 composition of four equal-level children. Two nodes produced by the
// same NodeCache are structurally equal if and only if they are the same
// allocation (see NodeCache.GetInner).
type Node struct {
	Level      uint // 0 = single cell; level k covers a 2^k x 2^k square
	Population Dim  // total live cells contained in this node

	// alive is meaningful only when Level == 0.
	alive bool

	// Children are nil when Level == 0 (a leaf) and non-nil otherwise.
	NW, NE, SW, SE *Node
}

// IsLeaf reports whether n is a level-0 single-cell node.
func (n *Node) IsLeaf() bool {
	return n.Level == 0
}

// Alive reports the cell state of a leaf node. Calling it on an inner node
// is a programming error and always returns false.
func (n *Node) Alive() bool {
	return n.IsLeaf() && n.alive
}

// childKey identifies an inner node by the identity (pointer) of its four
// canonicalized children. Hashing a subtree of arbitrary size is reduced to
// hashing four pointers because the cache is the sole producer of nodes and
// those children are themselves already canonical.
type childKey struct {
	nw, ne, sw, se *Node
}

func (n *Node) String() string {
	if n.IsLeaf() {
		if n.alive {
			return "Leaf(alive)"
		}
		return "Leaf(dead)"
	}
	return fmt.Sprintf("Inner(level=%d, population=%d)", n.Level, n.Population)
}
