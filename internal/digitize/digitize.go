// Package digitize performs Gauss digitization of an implicit shape and
// extracts the primal quad surface separating inside voxels from outside
// ones: one unit square (side = gridstep) per inside/outside voxel pair,
// with consistently outward winding.
package digitize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/romain22222/DGtalTest/internal/mesh"
)

// Field is an implicit scalar field with the negative-inside convention.
// implicit.Surface satisfies it.
type Field interface {
	Eval(p r3.Vec) float64
}

// Params controls the digitization domain and resolution.
type Params struct {
	// Bound is the half-extent B of the cubic domain [-B,B]^3 in world
	// units.
	Bound float64
	// GridStep is the digitization step h. Voxel centers live on h*Z^3.
	GridStep float64
	// Offset enlarges the scanned lattice by this many world units on
	// every side so shapes touching the bound still close up.
	Offset float64
}

// DefaultParams matches the historical driver defaults.
func DefaultParams() Params {
	return Params{Bound: 1, GridStep: 1, Offset: 3}
}

// axes[a] is the unit step along lattice axis a; perp[a] lists the two
// lattice axes spanning the face orthogonal to a.
var (
	axes = [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	perp = [3][2]int{{1, 2}, {2, 0}, {0, 1}}
)

// PrimalSurface digitizes the field on the lattice and returns the quad
// boundary mesh. Vertices (pointels) shared between adjacent quads are
// deduplicated, so the result is a closed combinatorial surface whenever
// the digitized set stays inside the scanned domain.
func PrimalSurface(f Field, p Params) (*mesh.SurfaceMesh, error) {
	if p.GridStep <= 0 {
		return nil, fmt.Errorf("digitize: gridstep must be positive, got %g", p.GridStep)
	}
	if p.Bound <= 0 {
		return nil, fmt.Errorf("digitize: bound must be positive, got %g", p.Bound)
	}
	h := p.GridStep
	n := int(math.Ceil((p.Bound + p.Offset) / h))

	inside := func(ix, iy, iz int) bool {
		if ix < -n || ix > n || iy < -n || iy > n || iz < -n || iz > n {
			return false
		}
		return f.Eval(r3.Vec{X: float64(ix) * h, Y: float64(iy) * h, Z: float64(iz) * h}) < 0
	}

	// Pointels live on the half-integer lattice; key them by doubled
	// integer coordinates to avoid float comparisons.
	pointels := map[[3]int]int{}
	var positions []r3.Vec
	pointel := func(c [3]int) int {
		if id, ok := pointels[c]; ok {
			return id
		}
		id := len(positions)
		pointels[c] = id
		positions = append(positions, r3.Vec{
			X: float64(c[0]) * h / 2,
			Y: float64(c[1]) * h / 2,
			Z: float64(c[2]) * h / 2,
		})
		return id
	}

	var faces [][]int
	count := 0
	for ix := -n; ix <= n; ix++ {
		for iy := -n; iy <= n; iy++ {
			for iz := -n; iz <= n; iz++ {
				if !inside(ix, iy, iz) {
					continue
				}
				count++
				cell := [3]int{ix, iy, iz}
				for a := 0; a < 3; a++ {
					for _, dir := range [2]int{1, -1} {
						nb := cell
						nb[a] += dir
						if inside(nb[0], nb[1], nb[2]) {
							continue
						}
						faces = append(faces, quad(cell, a, dir, pointel))
					}
				}
			}
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("digitize: no lattice point inside the shape (bound %g, gridstep %g)", p.Bound, p.GridStep)
	}
	return mesh.New(positions, faces)
}

// quad emits the boundary square between an inside voxel and its outside
// neighbor along axis a in direction dir, wound counter-clockwise seen
// from outside so the Newell normal points out of the digitized set.
func quad(cell [3]int, a, dir int, pointel func([3]int) int) []int {
	// Face center in doubled coordinates: voxel center + dir along a.
	center := [3]int{2 * cell[0], 2 * cell[1], 2 * cell[2]}
	center[a] += dir

	u, v := perp[a][0], perp[a][1]
	if dir < 0 {
		u, v = v, u
	}
	corner := func(du, dv int) int {
		c := center
		c[u] += du
		c[v] += dv
		return pointel(c)
	}
	return []int{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
}
