package implicit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Surface bundles a polynomial with its precomputed first and second
// partial derivatives so curvature evaluation stays allocation-free.
type Surface struct {
	F    *Polynomial
	grad [3]*Polynomial
	hess [3][3]*Polynomial
}

// NewSurface differentiates the polynomial once up front.
func NewSurface(f *Polynomial) *Surface {
	s := &Surface{F: f}
	for i := 0; i < 3; i++ {
		s.grad[i] = f.Deriv(i)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s.hess[i][j] = s.grad[i].Deriv(j)
		}
	}
	return s
}

// Eval evaluates the defining polynomial. Negative inside, positive
// outside.
func (s *Surface) Eval(p r3.Vec) float64 { return s.F.Eval(p) }

// Gradient returns the exact gradient of F at p. It points from the
// inside (F < 0) toward the outside.
func (s *Surface) Gradient(p r3.Vec) r3.Vec {
	return r3.Vec{X: s.grad[0].Eval(p), Y: s.grad[1].Eval(p), Z: s.grad[2].Eval(p)}
}

// Hessian returns the exact Hessian of F at p, row-major.
func (s *Surface) Hessian(p r3.Vec) [3][3]float64 {
	var h [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = s.hess[i][j].Eval(p)
		}
	}
	return h
}

// Normal returns the outward unit normal of the level set through p.
// Zero where the gradient vanishes.
func (s *Surface) Normal(p r3.Vec) r3.Vec {
	g := s.Gradient(p)
	if r3.Norm2(g) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(g)
}

// MeanCurvature returns the mean curvature H of the level set through p,
// positive for a sphere with the outward gradient convention:
//
//	H = ( |g|^2 tr(Hess) - g.Hess.g ) / ( 2 |g|^3 )
func (s *Surface) MeanCurvature(p r3.Vec) float64 {
	g := s.Gradient(p)
	h := s.Hessian(p)
	g2 := r3.Norm2(g)
	if g2 == 0 {
		return 0
	}
	trace := h[0][0] + h[1][1] + h[2][2]
	ghg := quadraticForm(h, g)
	return (g2*trace - ghg) / (2 * g2 * math.Sqrt(g2))
}

// GaussianCurvature returns the Gaussian curvature K of the level set
// through p:
//
//	K = g.adj(Hess).g / |g|^4
func (s *Surface) GaussianCurvature(p r3.Vec) float64 {
	g := s.Gradient(p)
	h := s.Hessian(p)
	g2 := r3.Norm2(g)
	if g2 == 0 {
		return 0
	}
	return quadraticForm(adjugate(h), g) / (g2 * g2)
}

func quadraticForm(m [3][3]float64, v r3.Vec) float64 {
	x := [3]float64{v.X, v.Y, v.Z}
	sum := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += x[i] * m[i][j] * x[j]
		}
	}
	return sum
}

// adjugate returns the transpose of the cofactor matrix.
func adjugate(m [3][3]float64) [3][3]float64 {
	var a [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			i1, i2 := (i+1)%3, (i+2)%3
			j1, j2 := (j+1)%3, (j+2)%3
			// Cofactor of (j,i): adjugate is the transposed cofactor matrix.
			a[i][j] = m[j1][i1]*m[j2][i2] - m[j1][i2]*m[j2][i1]
		}
	}
	return a
}
