package varifold

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/romain22222/DGtalTest/internal/digitize"
	"github.com/romain22222/DGtalTest/internal/implicit"
)

func TestPipelineRunAlignment(t *testing.T) {
	m := unitCube(t)
	p := Pipeline{Radius: 2, Kernel: Cone{}}
	res, err := p.Run(m, TrivialNormalFaceCentroid{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != "tnfc" {
		t.Errorf("Method = %q, want tnfc", res.Method)
	}
	if len(res.Varifolds) != m.NbFaces() || len(res.Signed) != m.NbFaces() {
		t.Fatalf("got %d varifolds, %d signed; want %d each", len(res.Varifolds), len(res.Signed), m.NbFaces())
	}
	if len(res.Faults) != 0 {
		t.Fatalf("unexpected faults: %v", res.Faults)
	}
	centroids := m.FaceCentroids()
	normals := m.FaceNormals()
	for i, v := range res.Varifolds {
		if v.Position != centroids[i] {
			t.Errorf("varifold %d position %v, want centroid %v", i, v.Position, centroids[i])
		}
		if v.Normal != normals[i] {
			t.Errorf("varifold %d normal %v, want face normal %v", i, v.Normal, normals[i])
		}
		if got, want := math.Abs(res.Signed[i]), r3.Norm(v.Curvature); math.Abs(got-want) > 1e-15 {
			t.Errorf("varifold %d |signed| = %g, want curvature magnitude %g", i, got, want)
		}
	}
}

func TestPipelineDualSamplesVertices(t *testing.T) {
	m := unitCube(t)
	p := Pipeline{Radius: 2, Kernel: HalfSphere{}}
	res, err := p.Run(m, DualNormalFaceCentroid{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Varifolds) != m.NbVertices() {
		t.Fatalf("dnfc produced %d samples, want %d", len(res.Varifolds), m.NbVertices())
	}
}

func TestPipelineCorrectedNormalErrors(t *testing.T) {
	m := unitCube(t)
	p := Pipeline{Radius: 2, Kernel: Cone{}}
	if _, err := p.Run(m, CorrectedNormalFaceCentroid{}, make([]r3.Vec, 1)); err == nil {
		t.Fatal("expected error for mismatched external normals")
	}
}

func TestPipelineGridIndexMatchesBrute(t *testing.T) {
	s, err := implicit.ByName("sphere9")
	if err != nil {
		t.Fatal(err)
	}
	m, err := digitize.PrimalSurface(s, digitize.Params{Bound: 10, GridStep: 1, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	const radius = 3.0
	brute := Pipeline{Radius: radius, Kernel: Cone{}}
	grid := Pipeline{
		Radius: radius,
		Kernel: Cone{},
		NewIndex: func(points []r3.Vec) NeighborhoodIndex {
			return NewGridIndex(points, radius)
		},
	}
	a, err := brute.Run(m, TrivialNormalFaceCentroid{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := grid.Run(m, TrivialNormalFaceCentroid{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Signed {
		if math.Abs(a.Signed[i]-b.Signed[i]) > 1e-12 {
			t.Fatalf("sample %d: brute %g vs grid %g", i, a.Signed[i], b.Signed[i])
		}
	}
}

func TestPipelineDigitizedSpherePositiveCurvature(t *testing.T) {
	s, err := implicit.ByName("sphere9")
	if err != nil {
		t.Fatal(err)
	}
	m, err := digitize.PrimalSurface(s, digitize.Params{Bound: 10, GridStep: 1, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	p := Pipeline{
		Radius: 3,
		Kernel: Cone{},
		NewIndex: func(points []r3.Vec) NeighborhoodIndex {
			return NewGridIndex(points, 3)
		},
		Workers: 4,
	}
	res, err := p.Run(m, TrivialNormalFaceCentroid{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Faults) != 0 {
		t.Fatalf("unexpected faults on a digitized sphere: %d", len(res.Faults))
	}
	positive := 0
	sum := 0.0
	for _, v := range res.Signed {
		if v > 0 {
			positive++
		}
		sum += v
	}
	// A convex digitized shape must come out dominantly convex after sign
	// correction.
	if frac := float64(positive) / float64(len(res.Signed)); frac < 0.9 {
		t.Errorf("only %.0f%% of samples signed positive", 100*frac)
	}
	if mean := sum / float64(len(res.Signed)); mean <= 0 {
		t.Errorf("mean signed curvature = %g, want > 0", mean)
	}
}

func TestPipelineProgressReachesFull(t *testing.T) {
	m := unitCube(t)
	var mu sync.Mutex
	var lines []string
	p := Pipeline{
		Radius: 2,
		Kernel: Cone{},
		Logf: func(format string, v ...any) {
			mu.Lock()
			defer mu.Unlock()
			lines = append(lines, fmt.Sprintf(format, v...))
		},
	}
	if _, err := p.Run(m, TrivialNormalFaceCentroid{}, nil); err != nil {
		t.Fatal(err)
	}
	if len(lines) == 0 {
		t.Fatal("no progress lines emitted")
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "100%") || !strings.Contains(last, "tnfc") {
		t.Errorf("last progress line = %q, want 100%% for tnfc", last)
	}
}
