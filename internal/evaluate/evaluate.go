// Package evaluate compares estimated curvature fields against ground
// truth: absolute-difference fields, L-infinity and L2 errors, and the
// summary statistic printed after each run.
package evaluate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AbsoluteDifference returns |a[i] - b[i]| per element. The slices must
// be equal length.
func AbsoluteDifference(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("evaluate: length mismatch %d vs %d", len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = math.Abs(a[i] - b[i])
	}
	return out, nil
}

// NormL2 returns the root mean square difference between the two fields.
func NormL2(a, b []float64) (float64, error) {
	diff, err := AbsoluteDifference(a, b)
	if err != nil {
		return 0, err
	}
	if len(diff) == 0 {
		return 0, nil
	}
	return floats.Norm(diff, 2) / math.Sqrt(float64(len(diff))), nil
}

// Statistic summarizes one scalar field.
type Statistic struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes the summary statistic of a field. An empty field
// yields the zero Statistic.
func Summarize(xs []float64) Statistic {
	if len(xs) == 0 {
		return Statistic{}
	}
	s := Statistic{
		N:    len(xs),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Mean: stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

func (s Statistic) String() string {
	return fmt.Sprintf("n=%d min=%g max=%g mean=%g stddev=%g", s.N, s.Min, s.Max, s.Mean, s.StdDev)
}
