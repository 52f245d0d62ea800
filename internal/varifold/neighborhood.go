package varifold

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// estimatedPointsPerCell is used for initial grid capacity estimation.
const estimatedPointsPerCell = 4

// NeighborhoodIndex answers radius queries over a fixed sample population.
// Ball returns the indices of all samples with ||position[i] - center|| < r,
// strictly: a sample exactly at distance r is excluded. Implementations are
// interchangeable on result sets; only query cost differs.
type NeighborhoodIndex interface {
	Ball(center r3.Vec, radius float64) []int
}

// BruteForceIndex is the reference implementation: an exhaustive distance
// scan over all samples. O(N) per query, which is acceptable for the mesh
// sizes this system targets (tens of thousands of elements) and the
// baseline any spatial index must reproduce exactly.
type BruteForceIndex struct {
	points []r3.Vec
}

// NewBruteForceIndex wraps a sample population. The slice is retained, not
// copied; it must not be mutated while queries are running.
func NewBruteForceIndex(points []r3.Vec) *BruteForceIndex {
	return &BruteForceIndex{points: points}
}

// Ball returns all sample indices strictly within radius of center.
func (ix *BruteForceIndex) Ball(center r3.Vec, radius float64) []int {
	r2 := radius * radius
	var out []int
	for i, p := range ix.points {
		if r3.Norm2(r3.Sub(p, center)) < r2 {
			out = append(out, i)
		}
	}
	return out
}

// GridIndex buckets samples into a regular 3D cell grid for faster radius
// queries. Cell size should approximately match the query radius so a ball
// touches at most a 3x3x3 block of cells.
type GridIndex struct {
	points   []r3.Vec
	cellSize float64
	grid     map[uint64][]int
}

// NewGridIndex builds a grid over the sample population. cellSize must be
// positive; queries with radius <= cellSize touch the minimal cell block.
func NewGridIndex(points []r3.Vec, cellSize float64) *GridIndex {
	ix := &GridIndex{
		points:   points,
		cellSize: cellSize,
		grid:     make(map[uint64][]int, len(points)/estimatedPointsPerCell+1),
	}
	for i, p := range points {
		id := ix.cellID(ix.cell(p.X), ix.cell(p.Y), ix.cell(p.Z))
		ix.grid[id] = append(ix.grid[id], i)
	}
	return ix
}

func (ix *GridIndex) cell(v float64) int64 {
	return int64(math.Floor(v / ix.cellSize))
}

// cellID packs three signed cell coordinates into one key using zigzag
// encoding followed by Szudzik pairing, applied twice.
func (ix *GridIndex) cellID(cx, cy, cz int64) uint64 {
	return szudzik(szudzik(zigzag(cx), zigzag(cy)), zigzag(cz))
}

func zigzag(v int64) uint64 {
	if v >= 0 {
		return 2 * uint64(v)
	}
	return 2*uint64(-v) - 1
}

func szudzik(a, b uint64) uint64 {
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// Ball returns all sample indices strictly within radius of center. The
// result set is identical to BruteForceIndex.Ball on the same population.
func (ix *GridIndex) Ball(center r3.Vec, radius float64) []int {
	r2 := radius * radius
	span := int64(math.Ceil(radius / ix.cellSize))
	cx, cy, cz := ix.cell(center.X), ix.cell(center.Y), ix.cell(center.Z)

	var out []int
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				for _, i := range ix.grid[ix.cellID(cx+dx, cy+dy, cz+dz)] {
					if r3.Norm2(r3.Sub(ix.points[i], center)) < r2 {
						out = append(out, i)
					}
				}
			}
		}
	}
	return out
}

var (
	_ NeighborhoodIndex = (*BruteForceIndex)(nil)
	_ NeighborhoodIndex = (*GridIndex)(nil)
)
