package varifold

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestKernelClosedForms(t *testing.T) {
	// These are calibration constants; they must match exactly, not
	// within tolerance.
	cases := []struct {
		kernel Kernel
		weight func(t float64) float64
		deriv  func(t float64) float64
	}{
		{FlatDisc{}, func(float64) float64 { return 3 / (4 * math.Pi) }, func(float64) float64 { return 0 }},
		{Cone{}, func(t float64) float64 { return (1 - t) * math.Pi / 12 }, func(float64) float64 { return -math.Pi / 12 }},
		{HalfSphere{}, func(t float64) float64 { return (1 - t*t) / (2 * math.Pi) }, func(t float64) float64 { return -t / math.Pi }},
	}
	for _, tc := range cases {
		for _, x := range []float64{0, 0.25, 0.5, 0.75} {
			if got, want := tc.kernel.Weight(x), tc.weight(x); got != want {
				t.Errorf("%s.Weight(%g) = %g, want %g", tc.kernel.Name(), x, got, want)
			}
			if got, want := tc.kernel.Derivative(x), tc.deriv(x); got != want {
				t.Errorf("%s.Derivative(%g) = %g, want %g", tc.kernel.Name(), x, got, want)
			}
		}
	}
}

func TestKernelNonNegativeInsideBall(t *testing.T) {
	for _, k := range Kernels() {
		for x := 0.0; x < 1; x += 0.01 {
			if w := k.Weight(x); w < 0 {
				t.Errorf("%s.Weight(%g) = %g, want >= 0", k.Name(), x, w)
			}
		}
	}
}

func TestRadialKernelClampsAtBoundary(t *testing.T) {
	for _, k := range Kernels() {
		rk := RadialKernel{Profile: k, Radius: 2}
		for _, d := range []float64{2, 2.0001, 3, 100} {
			w, dw := rk.Eval(d)
			if w != 0 || dw != 0 {
				t.Errorf("%s at distance %g: got (%g, %g), want (0, 0)", k.Name(), d, w, dw)
			}
		}
		// Strictly inside the boundary the weight may be zero (the cone
		// vanishes at t=1) but must be well-defined.
		if w, _ := rk.Eval(0); w <= 0 {
			t.Errorf("%s at center: weight %g, want > 0", k.Name(), w)
		}
	}
}

func TestRadialKernelAt(t *testing.T) {
	rk := RadialKernel{Profile: Cone{}, Center: r3.Vec{X: 1}, Radius: 2}
	w, _ := rk.At(r3.Vec{X: 2})
	if want := (Cone{}).Weight(0.5); w != want {
		t.Errorf("At distance 1 of radius 2: weight %g, want %g", w, want)
	}
}

func TestExponentialVanishesSmoothlyAtBoundary(t *testing.T) {
	k := Exponential{}
	if got := k.Weight(0); got != 1 {
		t.Errorf("Weight(0) = %g, want 1", got)
	}
	// Approaching the boundary both channels tend to zero.
	if w := k.Weight(0.999); w > 1e-100 {
		t.Errorf("Weight(0.999) = %g, want ~0", w)
	}
	prev := math.Inf(1)
	for _, x := range []float64{0.9, 0.99, 0.999} {
		w := k.Weight(x)
		if w >= prev {
			t.Errorf("Weight not decreasing near boundary: Weight(%g) = %g >= %g", x, w, prev)
		}
		prev = w
	}
}

func TestKernelByName(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"l", "cone"},
		{"p", "half-sphere"},
		{"e", "exponential"},
		{"c", "cnc"},
		{"d", "flat-disc"},
		{"flat-disc", "flat-disc"},
		{"Cone", "cone"},
	} {
		k, err := KernelByName(tc.in)
		if err != nil {
			t.Fatalf("KernelByName(%q): %v", tc.in, err)
		}
		if k.Name() != tc.want {
			t.Errorf("KernelByName(%q).Name() = %q, want %q", tc.in, k.Name(), tc.want)
		}
	}
	if _, err := KernelByName("gaussian"); err == nil {
		t.Error("KernelByName(gaussian): expected error")
	}
}
