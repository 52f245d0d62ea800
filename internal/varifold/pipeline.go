package varifold

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/romain22222/DGtalTest/internal/mesh"
)

// Varifold is the per-sample output record: the sample position, the
// normal that fed the estimator, and the raw curvature vector.
type Varifold struct {
	Position  r3.Vec
	Normal    r3.Vec
	Curvature r3.Vec
}

// Result bundles one method run. All slices are index-aligned with the
// method's sample population.
type Result struct {
	Method    string
	Varifolds []Varifold
	// Signed is the sign-corrected scalar curvature per sample.
	Signed []float64
	Faults []SampleFault
}

// Pipeline runs the full estimation for one method: input selection,
// curvature estimation, naive signing and sign-consistency correction.
// Samples, normals and the radius are fixed for the duration of one Run;
// nothing is cached across radius or method changes.
type Pipeline struct {
	// Radius is the measuring-ball radius R. Must be positive.
	Radius float64
	// Kernel is the radial weighting profile.
	Kernel Kernel
	// NewIndex builds the neighborhood index over the run's sample
	// positions. Nil selects the exhaustive scan.
	NewIndex func(points []r3.Vec) NeighborhoodIndex
	// Workers is forwarded to Estimate.
	Workers int
	// Logf, when non-nil, receives a progress line each whole percent.
	Logf func(format string, v ...any)
}

// Run executes the pipeline over a mesh for one method. external is the
// per-face normal field required by CorrectedNormalFaceCentroid.
func (p Pipeline) Run(m *mesh.SurfaceMesh, method Method, external []r3.Vec) (*Result, error) {
	positions, normals, ring, err := method.Inputs(m, external)
	if err != nil {
		return nil, err
	}

	cfg := EstimateConfig{
		Radius:  p.Radius,
		Kernel:  p.Kernel,
		Workers: p.Workers,
	}
	if p.NewIndex != nil {
		cfg.Index = p.NewIndex(positions)
	}
	if p.Logf != nil {
		cfg.Progress = progressMeter(p.Logf, method.Name())
	}

	curvatures, faults, err := Estimate(cfg, positions, normals)
	if err != nil {
		return nil, err
	}

	signed := CorrectSigns(NaiveSigned(normals, curvatures), ring)

	varifolds := make([]Varifold, len(positions))
	for i := range positions {
		varifolds[i] = Varifold{
			Position:  positions[i],
			Normal:    normals[i],
			Curvature: curvatures[i],
		}
	}
	return &Result{
		Method:    method.Name(),
		Varifolds: varifolds,
		Signed:    signed,
		Faults:    faults,
	}, nil
}

// progressMeter emits one log line each time the completed fraction
// crosses a whole percent. Safe for concurrent Progress calls.
func progressMeter(logf func(string, ...any), name string) func(done, total int) {
	var last atomic.Int64
	last.Store(-1)
	return func(done, total int) {
		pct := int64(done * 100 / total)
		for {
			prev := last.Load()
			if pct <= prev {
				return
			}
			if last.CompareAndSwap(prev, pct) {
				logf("computing varifolds (%s): %d%%", name, pct)
				return
			}
		}
	}
}
