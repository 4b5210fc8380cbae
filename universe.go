package hashlife

// MaxLevel bounds how far a Universe may Expand: 1<<63 would overflow Dim,
// so 62 is the largest level whose side length (1<<level) still fits.
const MaxLevel = 62

// Universe owns the current root node, its NodeCache, a generation counter,
// and the memoization table for single-generation forward evolution. It is
// not safe for concurrent mutation; independent Universes share nothing.
type Universe struct {
	cache *NodeCache
	root  *Node

	generation uint64

	// resultCache memoizes "one generation forward, center quadrant" keyed
	// by input node identity (see nextgen.go). Entries remain valid for
	// the life of the node they were computed from; they are discarded
	// wholesale whenever the NodeCache compacts.
	resultCache map[*Node]*Node

	// initialLevel is the level Clear() restores the universe to.
	initialLevel uint
}

// NewUniverse creates an empty universe at level max(sizeLevel, 3). Level 3
// (8x8) is the minimum because single-step evolution recurses on level-2
// subregions and needs at least one level of surrounding empty border.
func NewUniverse(sizeLevel int) *Universe {
	return NewUniverseWithConfig(sizeLevel, DefaultCacheCompactionThreshold)
}

// NewUniverseWithConfig is like NewUniverse but lets the caller pick the
// NodeCache's compaction threshold (see Config.CacheCompactionThreshold).
func NewUniverseWithConfig(sizeLevel, cacheCompactionThreshold int) *Universe {
	level := sizeLevel
	if level < 3 {
		level = 3
	}
	cache := NewNodeCache(cacheCompactionThreshold)
	u := &Universe{
		cache:        cache,
		root:         cache.GetEmpty(uint(level)),
		generation:   0,
		resultCache:  make(map[*Node]*Node),
		initialLevel: uint(level),
	}
	cache.SetCompactionHook(u.discardResultCache)
	return u
}

// discardResultCache drops every memoized evolution result. Registered as
// u.cache's compaction hook so a node-cache reset and a result-cache reset
// always happen together.
func (u *Universe) discardResultCache() {
	u.resultCache = make(map[*Node]*Node)
}

// Clear resets the universe in place to a fresh one at the creation size
// level. It mutates u's fields directly, rather than building a separate
// Universe and copying it over u, so that u.cache's compaction hook keeps
// pointing at u itself.
func (u *Universe) Clear() {
	cache := NewNodeCache(u.cache.compactionThreshold)
	u.cache = cache
	u.root = cache.GetEmpty(u.initialLevel)
	u.generation = 0
	u.resultCache = make(map[*Node]*Node)
	cache.SetCompactionHook(u.discardResultCache)
}

// Generation returns the number of generations advanced since creation.
func (u *Universe) Generation() uint64 {
	return u.generation
}

// Population returns the number of live cells, O(1) via the cached count.
func (u *Universe) Population() Dim {
	return u.root.Population
}

// CacheStats reports the NodeCache's current size and hit/miss counters.
func (u *Universe) CacheStats() CacheStats {
	return u.cache.Stats()
}

// RootLevel returns the level of the current root node; side length is
// 1 << RootLevel and the window covers [-2^(L-1), 2^(L-1)) on both axes.
func (u *Universe) RootLevel() uint {
	return u.root.Level
}

func windowHalf(level uint) Dim {
	return Dim(1) << (level - 1)
}

func inWindow(x, y, half Dim) bool {
	return x >= -half && x < half && y >= -half && y < half
}

// SetCell sets the cell at (x, y) to alive, auto-expanding the universe's
// window as many times as necessary to cover the coordinate. Idempotent.
// Leaves the universe unchanged if expansion fails (ErrNotRepresentable).
func (u *Universe) SetCell(x, y Dim, alive bool) error {
	oldRoot := u.root
	for !inWindow(x, y, windowHalf(u.root.Level)) {
		if err := u.Expand(); err != nil {
			u.root = oldRoot
			return err
		}
	}

	half := windowHalf(u.root.Level)
	newRoot, err := u.setCellRecursive(u.root, x, y, alive, -half, -half)
	if err != nil {
		return err
	}
	u.root = newRoot
	return nil
}

func (u *Universe) setCellRecursive(node *Node, x, y Dim, alive bool, nodeX, nodeY Dim) (*Node, error) {
	if node.IsLeaf() {
		return u.cache.GetLeaf(alive), nil
	}

	half := Dim(1) << (node.Level - 1)
	midX := nodeX + half
	midY := nodeY + half

	switch {
	case x < midX && y < midY:
		newNW, err := u.setCellRecursive(node.NW, x, y, alive, nodeX, nodeY)
		if err != nil {
			return nil, err
		}
		return u.cache.GetInner(newNW, node.NE, node.SW, node.SE)
	case x >= midX && y < midY:
		newNE, err := u.setCellRecursive(node.NE, x, y, alive, midX, nodeY)
		if err != nil {
			return nil, err
		}
		return u.cache.GetInner(node.NW, newNE, node.SW, node.SE)
	case x < midX && y >= midY:
		newSW, err := u.setCellRecursive(node.SW, x, y, alive, nodeX, midY)
		if err != nil {
			return nil, err
		}
		return u.cache.GetInner(node.NW, node.NE, newSW, node.SE)
	default:
		newSE, err := u.setCellRecursive(node.SE, x, y, alive, midX, midY)
		if err != nil {
			return nil, err
		}
		return u.cache.GetInner(node.NW, node.NE, node.SW, newSE)
	}
}

// GetCell returns the cell state at (x, y). Never expands the window;
// returns false for any coordinate outside it.
func (u *Universe) GetCell(x, y Dim) bool {
	half := windowHalf(u.root.Level)
	if !inWindow(x, y, half) {
		return false
	}
	return u.getCellRecursive(u.root, x, y, -half, -half)
}

func (u *Universe) getCellRecursive(node *Node, x, y, nodeX, nodeY Dim) bool {
	if node.IsLeaf() {
		return node.Alive()
	}

	half := Dim(1) << (node.Level - 1)
	midX := nodeX + half
	midY := nodeY + half

	switch {
	case x < midX && y < midY:
		return u.getCellRecursive(node.NW, x, y, nodeX, nodeY)
	case x >= midX && y < midY:
		return u.getCellRecursive(node.NE, x, y, midX, nodeY)
	case x < midX && y >= midY:
		return u.getCellRecursive(node.SW, x, y, nodeX, midY)
	default:
		return u.getCellRecursive(node.SE, x, y, midX, midY)
	}
}

// SetCells bulk-sets every coordinate in pairs to alive.
func (u *Universe) SetCells(pairs [][2]Dim) error {
	for _, p := range pairs {
		if err := u.SetCell(p[0], p[1], true); err != nil {
			return err
		}
	}
	return nil
}

// GetCells enumerates every live cell within the inclusive rectangle
// [xMin, xMax] x [yMin, yMax].
func (u *Universe) GetCells(xMin, yMin, xMax, yMax Dim) [][2]Dim {
	var cells [][2]Dim
	for y := yMin; y <= yMax; y++ {
		for x := xMin; x <= xMax; x++ {
			if u.GetCell(x, y) {
				cells = append(cells, [2]Dim{x, y})
			}
		}
	}
	return cells
}

// Expand doubles the universe's window by wrapping the current root in a
// new, larger root: the current root's four children are each padded with
// empty siblings so the original content occupies the center of the new
// square. Fails with ErrNotRepresentable if the new level would exceed
// MaxLevel.
func (u *Universe) Expand() error {
	if u.root.Level+1 > MaxLevel {
		return ErrNotRepresentable
	}

	empty := u.cache.GetEmpty(u.root.Level - 1)
	nw, ne, sw, se := u.root.NW, u.root.NE, u.root.SW, u.root.SE

	newNW, err := u.cache.GetInner(empty, empty, empty, nw)
	if err != nil {
		return err
	}
	newNE, err := u.cache.GetInner(empty, empty, ne, empty)
	if err != nil {
		return err
	}
	newSW, err := u.cache.GetInner(empty, sw, empty, empty)
	if err != nil {
		return err
	}
	newSE, err := u.cache.GetInner(se, empty, empty, empty)
	if err != nil {
		return err
	}

	newRoot, err := u.cache.GetInner(newNW, newNE, newSW, newSE)
	if err != nil {
		return err
	}
	u.root = newRoot
	return nil
}

// hasEmptyBorder reports whether root's two outermost rings are entirely
// dead: every one of root's four quadrants must have no live cells outside
// the grandchild-of-its-grandchild nearest the center (e.g. NW.SE.SE), so
// all live cells lie in the central square of side 2^(L-2). nextGeneration
// evolves the central square of side 2^(L-1), so every birth one cell
// beyond the live cells still lands inside the evolved result. A root
// failing this check is expanded again before stepping.
func hasEmptyBorder(root *Node) bool {
	return root.NW.Population == root.NW.SE.SE.Population &&
		root.NE.Population == root.NE.SW.SW.Population &&
		root.SW.Population == root.SW.NE.NE.Population &&
		root.SE.Population == root.SE.NW.NW.Population
}

// Step advances the simulation by exactly one Conway generation and
// increments Generation by 1. The root is first expanded, if necessary,
// until hasEmptyBorder holds; this keeps every cell that is alive before
// or after the step inside the window. If an expansion fails, the root is
// left as it was before the call.
func (u *Universe) Step() error {
	oldRoot := u.root
	for u.root.Level < 3 {
		if u.root.Population == 0 {
			u.generation++
			return nil
		}
		if err := u.Expand(); err != nil {
			u.root = oldRoot
			return err
		}
	}

	for !hasEmptyBorder(u.root) {
		if err := u.Expand(); err != nil {
			u.root = oldRoot
			return err
		}
	}

	if u.root.Population == 0 {
		u.generation++
		return nil
	}

	result, err := u.nextGeneration(u.root)
	if err != nil {
		return err
	}

	border := u.cache.GetEmpty(result.Level - 1)

	newNW, err := u.cache.GetInner(border, border, border, result.NW)
	if err != nil {
		return err
	}
	newNE, err := u.cache.GetInner(border, border, result.NE, border)
	if err != nil {
		return err
	}
	newSW, err := u.cache.GetInner(border, result.SW, border, border)
	if err != nil {
		return err
	}
	newSE, err := u.cache.GetInner(result.SE, border, border, border)
	if err != nil {
		return err
	}

	newRoot, err := u.cache.GetInner(newNW, newNE, newSW, newSE)
	if err != nil {
		return err
	}

	u.root = newRoot
	u.generation++
	return nil
}
