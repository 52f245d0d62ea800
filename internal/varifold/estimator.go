package varifold

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"
)

// EstimateConfig carries the parameters of one estimation run. Zero values
// of optional fields select the reference behavior: a brute-force
// neighborhood scan and a single worker.
type EstimateConfig struct {
	// Radius is the measuring-ball radius R. Must be positive.
	Radius float64
	// Kernel is the radial weighting profile. Required.
	Kernel Kernel
	// Index, when non-nil, replaces the exhaustive scan. Any substitution
	// must return the same result sets over the run's positions.
	Index NeighborhoodIndex
	// Workers bounds the number of goroutines accumulating samples.
	// Values below 2 keep the run single-threaded.
	Workers int
	// Progress, when non-nil, is called after each finished sample with
	// the number of samples done and the total. It must be safe for
	// concurrent use when Workers > 1.
	Progress func(done, total int)
}

// Estimate computes one curvature vector per sample by integrating, over
// the ball of radius R around each sample, the unit vectors toward its
// neighbors projected orthogonally to the neighbors' normals and weighted
// by the radial kernel:
//
//	curvature[f] = -( sum_{g!=f} w_g * proj(p_g - p_f, n_g) / |p_g - p_f| )
//	              / ( sum_g w_g * R )
//
// positions and normals must be equal-length and index-aligned; the output
// is indexed identically. The sample's own normal never enters its
// accumulation, only neighbor normals do; the self term contributes to the
// denominator only.
//
// Per-sample failures (see FaultKind) are returned alongside the vectors,
// with the faulty slots left zero. A non-nil error is returned only for
// inputs rejected before computation starts.
func Estimate(cfg EstimateConfig, positions, normals []r3.Vec) ([]r3.Vec, []SampleFault, error) {
	if cfg.Radius <= 0 {
		return nil, nil, ErrInvalidRadius
	}
	if cfg.Kernel == nil {
		return nil, nil, fmt.Errorf("varifold: nil kernel")
	}
	if len(positions) != len(normals) {
		return nil, nil, fmt.Errorf("varifold: %d positions but %d normals", len(positions), len(normals))
	}

	index := cfg.Index
	if index == nil {
		index = NewBruteForceIndex(positions)
	}

	n := len(positions)
	curvatures := make([]r3.Vec, n)
	faults := make([]SampleFault, 0)

	if cfg.Workers < 2 || n < 2 {
		for f := 0; f < n; f++ {
			if fault, ok := estimateOne(cfg, index, positions, normals, f, curvatures); !ok {
				faults = append(faults, fault)
			}
			if cfg.Progress != nil {
				cfg.Progress(f+1, n)
			}
		}
		return curvatures, faults, nil
	}

	// Each worker owns a disjoint range of output slots and only reads the
	// shared position/normal arrays, so no locking is needed beyond the
	// fault list.
	var (
		wg      sync.WaitGroup
		faultMu sync.Mutex
		done    atomic.Int64
	)
	workers := cfg.Workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			var local []SampleFault
			for f := lo; f < hi; f++ {
				if fault, ok := estimateOne(cfg, index, positions, normals, f, curvatures); !ok {
					local = append(local, fault)
				}
				if cfg.Progress != nil {
					cfg.Progress(int(done.Add(1)), n)
				}
			}
			if len(local) > 0 {
				faultMu.Lock()
				faults = append(faults, local...)
				faultMu.Unlock()
			}
		}(lo, hi)
	}
	wg.Wait()
	sort.Slice(faults, func(i, j int) bool { return faults[i].Index < faults[j].Index })
	return curvatures, faults, nil
}

// estimateOne accumulates one sample's curvature into out[f]. It reports
// ok=false with a fault when the sample is degenerate; out[f] stays zero.
func estimateOne(cfg EstimateConfig, index NeighborhoodIndex, positions, normals []r3.Vec, f int, out []r3.Vec) (SampleFault, bool) {
	b := positions[f]
	rk := RadialKernel{Profile: cfg.Kernel, Center: b, Radius: cfg.Radius}

	var num r3.Vec
	var den float64
	neighbors := 0
	for _, g := range index.Ball(b, cfg.Radius) {
		v := r3.Sub(positions[g], b)
		d := r3.Norm(v)
		w, _ := rk.Eval(d)
		if w <= 0 {
			continue
		}
		den += w
		if g == f {
			continue
		}
		if d == 0 {
			return SampleFault{Index: f, Kind: DegenerateDisplacement, Neighbor: g}, false
		}
		neighbors++
		num = r3.Add(num, r3.Scale(w/d, projectOrthogonal(v, normals[g])))
	}
	// The self term alone always carries positive weight, so a bare
	// denominator check would let a neighborless sample slip through as a
	// spurious zero curvature. Treat "no distinct in-ball neighbor" as the
	// degenerate case too.
	if den == 0 || neighbors == 0 {
		return SampleFault{Index: f, Kind: DegenerateNeighborhood, Neighbor: -1}, false
	}
	out[f] = r3.Scale(-1/(den*cfg.Radius), num)
	return SampleFault{}, true
}

// projectOrthogonal removes from v its component along n:
// v - n*(v.n)/|n|^2. A zero n returns v unchanged.
func projectOrthogonal(v, n r3.Vec) r3.Vec {
	n2 := r3.Norm2(n)
	if n2 == 0 {
		return v
	}
	return r3.Sub(v, r3.Scale(r3.Dot(v, n)/n2, n))
}
