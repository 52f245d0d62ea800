package varifold

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/romain22222/DGtalTest/internal/mesh"
)

// Method selects the sample population and normal source fed into the
// estimator. All methods share the same estimator and sign corrector;
// only the input arrays differ, and output arrays stay index-aligned
// with the chosen population.
type Method interface {
	// Name returns the short method selector ("tnfc", "dnfc", "cnfc").
	Name() string
	// Inputs extracts the sample positions, normals and the 1-ring
	// adjacency for one run. external carries the per-face normal field
	// required by CorrectedNormalFaceCentroid and is ignored otherwise.
	Inputs(m *mesh.SurfaceMesh, external []r3.Vec) (positions, normals []r3.Vec, ring RingFunc, err error)
}

// TrivialNormalFaceCentroid samples face centroids with face normals
// derived from vertex positions.
type TrivialNormalFaceCentroid struct{}

func (TrivialNormalFaceCentroid) Name() string { return "tnfc" }

func (TrivialNormalFaceCentroid) Inputs(m *mesh.SurfaceMesh, _ []r3.Vec) ([]r3.Vec, []r3.Vec, RingFunc, error) {
	return m.FaceCentroids(), m.FaceNormals(), FaceRing(m), nil
}

// DualNormalFaceCentroid samples mesh vertices with vertex normals derived
// by averaging incident face normals.
type DualNormalFaceCentroid struct{}

func (DualNormalFaceCentroid) Name() string { return "dnfc" }

func (DualNormalFaceCentroid) Inputs(m *mesh.SurfaceMesh, _ []r3.Vec) ([]r3.Vec, []r3.Vec, RingFunc, error) {
	return m.Positions, m.VertexNormals(), VertexRing(m), nil
}

// CorrectedNormalFaceCentroid samples face centroids with an externally
// supplied per-face normal field (e.g. an integral-invariant estimate),
// not derived from the mesh geometry itself.
type CorrectedNormalFaceCentroid struct{}

func (CorrectedNormalFaceCentroid) Name() string { return "cnfc" }

func (CorrectedNormalFaceCentroid) Inputs(m *mesh.SurfaceMesh, external []r3.Vec) ([]r3.Vec, []r3.Vec, RingFunc, error) {
	if len(external) != m.NbFaces() {
		return nil, nil, nil, fmt.Errorf("cnfc: %d external normals for %d faces", len(external), m.NbFaces())
	}
	return m.FaceCentroids(), external, FaceRing(m), nil
}

var (
	_ Method = TrivialNormalFaceCentroid{}
	_ Method = DualNormalFaceCentroid{}
	_ Method = CorrectedNormalFaceCentroid{}
)

// MethodByName resolves a method from its short selector.
func MethodByName(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "tnfc":
		return TrivialNormalFaceCentroid{}, nil
	case "dnfc":
		return DualNormalFaceCentroid{}, nil
	case "cnfc":
		return CorrectedNormalFaceCentroid{}, nil
	}
	return nil, fmt.Errorf("unknown method %q", name)
}

// FaceRing adapts the mesh's edge-sharing face adjacency to a RingFunc.
// Inclusion weights are each neighbor's area fraction of the total ring
// area, so large neighboring faces dominate the majority vote.
func FaceRing(m *mesh.SurfaceMesh) RingFunc {
	return func(f int) []WeightedNeighbor {
		ring := m.NeighborFaces(f)
		if len(ring) == 0 {
			return nil
		}
		total := 0.0
		areas := make([]float64, len(ring))
		for i, g := range ring {
			areas[i] = m.FaceArea(g)
			total += areas[i]
		}
		out := make([]WeightedNeighbor, len(ring))
		for i, g := range ring {
			w := 1.0 / float64(len(ring))
			if total > 0 {
				w = areas[i] / total
			}
			out[i] = WeightedNeighbor{Index: g, Weight: w}
		}
		return out
	}
}

// VertexRing adapts the mesh's edge-sharing vertex adjacency to a
// RingFunc with uniform inclusion weights.
func VertexRing(m *mesh.SurfaceMesh) RingFunc {
	return func(v int) []WeightedNeighbor {
		ring := m.NeighborVertices(v)
		if len(ring) == 0 {
			return nil
		}
		out := make([]WeightedNeighbor, len(ring))
		for i, u := range ring {
			out[i] = WeightedNeighbor{Index: u, Weight: 1 / float64(len(ring))}
		}
		return out
	}
}
