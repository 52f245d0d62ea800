package varifold

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// WeightedNeighbor is one topological 1-ring neighbor of a sample, with the
// inclusion weight assigned by the mesh adjacency (fraction of the
// neighbor's area or role falling in the ring).
type WeightedNeighbor struct {
	Index  int
	Weight float64
}

// RingFunc enumerates the 1-ring neighbors of sample i, excluding i itself.
// It is supplied by the mesh layer, not derived from the radial kernel.
type RingFunc func(i int) []WeightedNeighbor

// NaiveSigned collapses curvature vectors to naively signed scalars:
// the vector magnitude, signed by its agreement with the sample's own
// normal. This per-sample sign is noisy; see CorrectSigns.
func NaiveSigned(normals, curvatures []r3.Vec) []float64 {
	signed := make([]float64, len(curvatures))
	for i, c := range curvatures {
		m := r3.Norm(c)
		if r3.Dot(normals[i], c) > 0 {
			signed[i] = m
		} else {
			signed[i] = -m
		}
	}
	return signed
}

// CorrectSigns resolves the estimator's intrinsic sign ambiguity by
// neighborhood majority vote: each sample takes the sign of the weighted
// sum of its 1-ring neighbors' naive values, keeping its own magnitude.
// A sample with no qualifying neighbor keeps a non-negative magnitude (the
// empty sum compares as non-negative); this tie-break is a deliberate
// convention, not an oversight.
//
// The function is pure and idempotent on inputs whose signs already agree
// with their neighborhood majority.
func CorrectSigns(naive []float64, ring RingFunc) []float64 {
	corrected := make([]float64, len(naive))
	for i, v := range naive {
		sum := 0.0
		for _, nb := range ring(i) {
			if nb.Index == i {
				continue
			}
			sum += nb.Weight * naive[nb.Index]
		}
		mag := v
		if mag < 0 {
			mag = -mag
		}
		if sum < 0 {
			corrected[i] = -mag
		} else {
			corrected[i] = mag
		}
	}
	return corrected
}
