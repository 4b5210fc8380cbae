package hashlife

import "strings"

// RenderRegion describes a square region of the universe for drawing
// purposes: its top-left coordinate, side length, and live-cell density.
// A region with Size == 1 is a single cell; larger regions are emitted
// once a node's side length drops to or below the caller's minRenderSize,
// aggregating whatever lies beneath into one density figure instead of
// recursing all the way to individual cells.
type RenderRegion struct {
	X, Y    Dim
	Size    Dim
	Density float64
}

// GetRenderRegions is an alias for CollectRenderRegions kept for callers
// that prefer the external name used by the HTTP and CLI surfaces.
func (u *Universe) GetRenderRegions(viewXMin, viewYMin, viewXMax, viewYMax Dim, minRenderSize Dim) []RenderRegion {
	return u.CollectRenderRegions(viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize)
}

// CollectRenderRegions walks the quadtree, pruning subtrees that are empty
// or fall entirely outside [viewXMin, viewXMax) x [viewYMin, viewYMax), and
// emits one RenderRegion per visited node whose side length is at most
// minRenderSize (or that is a leaf). Regions above that threshold are
// always subdivided further; regions at or below it are emitted as a
// single aggregate tuple rather than recursed into. minRenderSize <= 0 is
// treated as 1, i.e. full per-cell resolution.
func (u *Universe) CollectRenderRegions(viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize Dim) []RenderRegion {
	if minRenderSize <= 0 {
		minRenderSize = 1
	}

	half := windowHalf(u.root.Level)
	var regions []RenderRegion
	collectRegions(u.root, -half, -half, viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize, &regions)
	return regions
}

func collectRegions(node *Node, x, y, viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize Dim, out *[]RenderRegion) {
	if node.Population == 0 {
		return
	}

	size := Dim(1) << node.Level
	if x+size <= viewXMin || x >= viewXMax || y+size <= viewYMin || y >= viewYMax {
		return
	}

	if node.IsLeaf() || size <= minRenderSize {
		density := float64(node.Population) / float64(size*size)
		*out = append(*out, RenderRegion{X: x, Y: y, Size: size, Density: density})
		return
	}

	half := size / 2
	collectRegions(node.NW, x, y, viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize, out)
	collectRegions(node.NE, x+half, y, viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize, out)
	collectRegions(node.SW, x, y+half, viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize, out)
	collectRegions(node.SE, x+half, y+half, viewXMin, viewYMin, viewXMax, viewYMax, minRenderSize, out)
}

// Render draws the view rectangle as an ASCII grid, '#' for a live cell
// and '.' for a dead one, one row of text per y. Intended for the REPL and
// CLI's human-facing output, not for large views.
func (u *Universe) Render(xMin, yMin, xMax, yMax Dim) string {
	var b strings.Builder
	for y := yMin; y <= yMax; y++ {
		for x := xMin; x <= xMax; x++ {
			if u.GetCell(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
