package varifold

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kernel is a radial weighting profile evaluated at a normalized distance
// t = d/R, where d is the Euclidean distance from the kernel center and R
// the measuring-ball radius. Profiles are stateless: the same Kernel value
// can be shared across samples and goroutines.
//
// Both channels are only meaningful on [0,1). Callers clamp t >= 1 to
// exactly (0,0) themselves; the profile never sees out-of-ball distances.
// The derivative channel exists for kernel-shape inspection and is not
// consumed by the curvature estimator.
type Kernel interface {
	// Name returns the canonical kernel name ("flat-disc", "cone", ...).
	Name() string
	// Weight returns the profile value at normalized distance t in [0,1).
	Weight(t float64) float64
	// Derivative returns d/dt of Weight at t in [0,1).
	Derivative(t float64) float64
}

// The closed forms below are calibration constants for known analytic
// shapes and must not be altered.

// FlatDisc weights every in-ball neighbor uniformly with 3/(4*pi), the
// reciprocal of the unit ball volume.
type FlatDisc struct{}

func (FlatDisc) Name() string { return "flat-disc" }
func (FlatDisc) Weight(t float64) float64 { return 3 / (4 * math.Pi) }
func (FlatDisc) Derivative(t float64) float64 { return 0 }

// Cone decays linearly from the center to the ball boundary.
type Cone struct{}

func (Cone) Name() string { return "cone" }
func (Cone) Weight(t float64) float64 { return (1 - t) * math.Pi / 12 }
func (Cone) Derivative(t float64) float64 { return -math.Pi / 12 }

// HalfSphere decays quadratically, the profile of a hemisphere cap.
type HalfSphere struct{}

func (HalfSphere) Name() string { return "half-sphere" }
func (HalfSphere) Weight(t float64) float64 { return (1 - t*t) / (2 * math.Pi) }
func (HalfSphere) Derivative(t float64) float64 { return -t / math.Pi }

// Exponential is the compactly supported smooth bump exp(t^2/(t^2-1)).
// It is 1 at the center and vanishes with all derivatives at the boundary.
type Exponential struct{}

func (Exponential) Name() string { return "exponential" }

func (Exponential) Weight(t float64) float64 {
	u := t*t - 1
	return math.Exp(t * t / u)
}

func (Exponential) Derivative(t float64) float64 {
	u := t*t - 1
	return math.Exp(t*t/u) * (-2 * t / (u * u))
}

// CNCLike is the unnormalized ball indicator. The estimator divides by the
// total accumulated weight, so the missing normalization constant cancels,
// mirroring the ratio-of-measures formula of corrected normal currents.
type CNCLike struct{}

func (CNCLike) Name() string { return "cnc" }
func (CNCLike) Weight(t float64) float64 { return 1 }
func (CNCLike) Derivative(t float64) float64 { return 0 }

var (
	_ Kernel = FlatDisc{}
	_ Kernel = Cone{}
	_ Kernel = HalfSphere{}
	_ Kernel = Exponential{}
	_ Kernel = CNCLike{}
)

// Kernels lists every profile, in the order they are documented.
func Kernels() []Kernel {
	return []Kernel{FlatDisc{}, Cone{}, HalfSphere{}, Exponential{}, CNCLike{}}
}

// KernelByName resolves a kernel from its canonical name or the historical
// single-letter selector used by the evaluation CLI ('d' flat-disc,
// 'l' linear i.e. cone, 'p' polynomial i.e. half-sphere, 'e' exponential,
// 'c' CNC-like).
func KernelByName(name string) (Kernel, error) {
	switch strings.ToLower(name) {
	case "d", "flat-disc", "flatdisc", "disc":
		return FlatDisc{}, nil
	case "l", "linear", "cone":
		return Cone{}, nil
	case "p", "polynomial", "half-sphere", "halfsphere":
		return HalfSphere{}, nil
	case "e", "exponential", "exp":
		return Exponential{}, nil
	case "c", "cnc", "cnc-like":
		return CNCLike{}, nil
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}

// RadialKernel binds a Kernel to a center point and radius, applying the
// out-of-ball clamp: weight and derivative are exactly (0,0) for any
// distance at or beyond the radius (strict '<' at the boundary). One
// RadialKernel is built per sample, centered on that sample's position.
type RadialKernel struct {
	Profile Kernel
	Center  r3.Vec
	Radius  float64
}

// Eval returns (weight, derivative) for a neighbor at Euclidean distance d
// from the kernel center.
func (rk RadialKernel) Eval(d float64) (w, dw float64) {
	t := d / rk.Radius
	if t >= 1 {
		return 0, 0
	}
	return rk.Profile.Weight(t), rk.Profile.Derivative(t)
}

// At evaluates the kernel at an arbitrary point.
func (rk RadialKernel) At(p r3.Vec) (w, dw float64) {
	return rk.Eval(r3.Norm(r3.Sub(p, rk.Center)))
}
