package hashlife

// nextGeneration returns the canonical "one generation forward, center
// quadrant" node for the given level-k input: a node at level k-1 centered
// on the input's own center. Results are memoized by input node identity
// (resultCache), so a given subtree is evolved at most once per Universe
// lifetime regardless of how many times it recurs in the DAG.
func (u *Universe) nextGeneration(node *Node) (*Node, error) {
	if result, ok := u.resultCache[node]; ok {
		return result, nil
	}

	var result *Node
	var err error
	if node.Level == 2 {
		result, err = u.computeLevel2(node)
	} else {
		result, err = u.nextGenerationRecursive(node)
	}
	if err != nil {
		return nil, err
	}

	u.resultCache[node] = result
	return result, nil
}

// nextGenerationRecursive implements the level k >= 3 case: it builds five
// helper level-(k-1) nodes by recomposing children of node's own four
// children, recurses nextGeneration over the resulting nine overlapping
// level-(k-1) regions (the four original children plus the five helpers),
// and reassembles the nine level-(k-2) results into four output quadrants
// at level k-1.
func (u *Universe) nextGenerationRecursive(node *Node) (*Node, error) {
	nw, ne, sw, se := node.NW, node.NE, node.SW, node.SE

	centerNWNE, err := u.centeredHorizontal(nw, ne)
	if err != nil {
		return nil, err
	}
	centerSWSE, err := u.centeredHorizontal(sw, se)
	if err != nil {
		return nil, err
	}
	centerNWSW, err := u.centeredVertical(nw, sw)
	if err != nil {
		return nil, err
	}
	centerNESE, err := u.centeredVertical(ne, se)
	if err != nil {
		return nil, err
	}
	center, err := u.centeredSubnode(node)
	if err != nil {
		return nil, err
	}

	n00, err := u.nextGeneration(nw)
	if err != nil {
		return nil, err
	}
	n01, err := u.nextGeneration(centerNWNE)
	if err != nil {
		return nil, err
	}
	n02, err := u.nextGeneration(ne)
	if err != nil {
		return nil, err
	}
	n10, err := u.nextGeneration(centerNWSW)
	if err != nil {
		return nil, err
	}
	n11, err := u.nextGeneration(center)
	if err != nil {
		return nil, err
	}
	n12, err := u.nextGeneration(centerNESE)
	if err != nil {
		return nil, err
	}
	n20, err := u.nextGeneration(sw)
	if err != nil {
		return nil, err
	}
	n21, err := u.nextGeneration(centerSWSE)
	if err != nil {
		return nil, err
	}
	n22, err := u.nextGeneration(se)
	if err != nil {
		return nil, err
	}

	resultNW, err := u.cache.GetInner(n00.SE, n01.SW, n10.NE, n11.NW)
	if err != nil {
		return nil, err
	}
	resultNE, err := u.cache.GetInner(n01.SE, n02.SW, n11.NE, n12.NW)
	if err != nil {
		return nil, err
	}
	resultSW, err := u.cache.GetInner(n10.SE, n11.SW, n20.NE, n21.NW)
	if err != nil {
		return nil, err
	}
	resultSE, err := u.cache.GetInner(n11.SE, n12.SW, n21.NE, n22.NW)
	if err != nil {
		return nil, err
	}

	return u.cache.GetInner(resultNW, resultNE, resultSW, resultSE)
}

// centeredSubnode returns the level-(node.Level-1) node made of node's own
// four innermost grandchildren: the center square of node.
func (u *Universe) centeredSubnode(node *Node) (*Node, error) {
	return u.cache.GetInner(node.NW.SE, node.NE.SW, node.SW.NE, node.SE.NW)
}

// centeredHorizontal returns the center subnode straddling the boundary
// between a west node and an east node of the same level.
func (u *Universe) centeredHorizontal(west, east *Node) (*Node, error) {
	return u.cache.GetInner(west.NE, east.NW, west.SE, east.SW)
}

// centeredVertical returns the center subnode straddling the boundary
// between a north node and a south node of the same level.
func (u *Universe) centeredVertical(north, south *Node) (*Node, error) {
	return u.cache.GetInner(north.SW, north.SE, south.NW, south.NE)
}

// computeLevel2 implements the base case: node is a 4x4 region. Its 16
// cells are read into a scratch grid, Conway's B3/S23 rule is applied to
// the inner 2x2 cells, and the four resulting cells are assembled into a
// canonical level-1 node.
func (u *Universe) computeLevel2(node *Node) (*Node, error) {
	var cells [4][4]bool
	extractCells(node.NW, &cells, 0, 0)
	extractCells(node.NE, &cells, 2, 0)
	extractCells(node.SW, &cells, 0, 2)
	extractCells(node.SE, &cells, 2, 2)

	var result [2][2]bool
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			cx, cy := x+1, y+1
			n := countNeighbors(&cells, cx, cy)
			switch {
			case cells[cy][cx] && (n == 2 || n == 3):
				result[y][x] = true
			case !cells[cy][cx] && n == 3:
				result[y][x] = true
			}
		}
	}

	rNW := u.cache.GetLeaf(result[0][0])
	rNE := u.cache.GetLeaf(result[0][1])
	rSW := u.cache.GetLeaf(result[1][0])
	rSE := u.cache.GetLeaf(result[1][1])

	return u.cache.GetInner(rNW, rNE, rSW, rSE)
}

// extractCells writes node's cell states into a 4x4 scratch grid at the
// given offset, recursing down to leaves.
func extractCells(node *Node, cells *[4][4]bool, offsetX, offsetY int) {
	if node.IsLeaf() {
		cells[offsetY][offsetX] = node.Alive()
		return
	}
	extractCells(node.NW, cells, offsetX, offsetY)
	extractCells(node.NE, cells, offsetX+1, offsetY)
	extractCells(node.SW, cells, offsetX, offsetY+1)
	extractCells(node.SE, cells, offsetX+1, offsetY+1)
}

// countNeighbors counts live cells in the 3x3 Moore neighborhood of (x, y)
// within a 4x4 scratch grid, treating cells outside the grid as dead.
func countNeighbors(cells *[4][4]bool, x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < 4 && ny >= 0 && ny < 4 && cells[ny][nx] {
				count++
			}
		}
	}
	return count
}
