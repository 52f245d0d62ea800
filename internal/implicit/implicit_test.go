package implicit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestParseEval(t *testing.T) {
	cases := []struct {
		expr string
		at   r3.Vec
		want float64
	}{
		{"x^2+y^2+z^2-1", r3.Vec{X: 1}, 0},
		{"x^2+y^2+z^2-1", r3.Vec{}, -1},
		{"3*x^2*y-z^2*x*y+1", r3.Vec{X: 2, Y: 3, Z: 1}, 3*4*3 - 1*2*3 + 1},
		{"(x+y)^2", r3.Vec{X: 2, Y: 3}, 25},
		{"-x^2", r3.Vec{X: 3}, -9},
		{"2-x", r3.Vec{X: 5}, -3},
		{"0.5*x", r3.Vec{X: 4}, 2},
		{"(x^2+y^2+z^2+6*6-2*2)^2-4*6*6*(x^2+y^2)", r3.Vec{X: 8, Y: 0, Z: 0}, (64+32)*(64+32) - 144*64},
	}
	for _, tc := range cases {
		p, err := Parse(tc.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.expr, err)
		}
		if got := p.Eval(tc.at); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Parse(%q).Eval(%v) = %g, want %g", tc.expr, tc.at, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"", "x^", "x^y", "(x+1", "x+", "x$1", "x^-2"} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q): expected error", expr)
		}
	}
}

func TestDeriv(t *testing.T) {
	p := MustParse("3*x^2*y-z^2*x*y+1")
	dx := p.Deriv(0)
	// d/dx = 6*x*y - z^2*y
	at := r3.Vec{X: 2, Y: 3, Z: 4}
	if got, want := dx.Eval(at), 6.0*2*3-16*3; math.Abs(got-want) > 1e-12 {
		t.Errorf("d/dx at %v = %g, want %g", at, got, want)
	}
	if got := MustParse("7").Deriv(2).Eval(at); got != 0 {
		t.Errorf("d/dz of constant = %g, want 0", got)
	}
}

func TestPolynomialString(t *testing.T) {
	p := MustParse("x^2+y^2+z^2-1")
	q, err := Parse(p.String())
	if err != nil {
		t.Fatalf("re-parsing %q: %v", p.String(), err)
	}
	for _, at := range []r3.Vec{{}, {X: 1, Y: 2, Z: 3}, {X: -0.5, Z: 2}} {
		if a, b := p.Eval(at), q.Eval(at); a != b {
			t.Errorf("round-trip changed value at %v: %g vs %g", at, a, b)
		}
	}
}

func TestSphereCurvatures(t *testing.T) {
	const rho = 9.0
	s, err := ByName("sphere9")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []r3.Vec{{X: rho}, {Y: -rho}, {X: rho / math.Sqrt2, Z: rho / math.Sqrt2}} {
		if got := s.MeanCurvature(p); math.Abs(got-1/rho) > 1e-12 {
			t.Errorf("mean curvature at %v = %g, want %g", p, got, 1/rho)
		}
		if got := s.GaussianCurvature(p); math.Abs(got-1/(rho*rho)) > 1e-12 {
			t.Errorf("Gaussian curvature at %v = %g, want %g", p, got, 1/(rho*rho))
		}
	}
}

func TestNormalPointsOutward(t *testing.T) {
	s, err := ByName("sphere1")
	if err != nil {
		t.Fatal(err)
	}
	p := r3.Vec{X: 0.6, Y: 0.8}
	n := s.Normal(p)
	if math.Abs(r3.Norm(n)-1) > 1e-14 {
		t.Fatalf("normal %v not unit", n)
	}
	if d := r3.Norm(r3.Sub(n, r3.Unit(p))); d > 1e-14 {
		t.Errorf("sphere normal at %v = %v, want radial", p, n)
	}
}

func TestTorusCurvatureRange(t *testing.T) {
	// Torus with major radius 6, minor radius 2: mean curvature ranges
	// over [ (R-2r)/(2r(R-r)) , (R+2r)/(2r(R+r)) ] = [0.125, 0.3125].
	s, err := ByName("torus")
	if err != nil {
		t.Fatal(err)
	}
	outer := r3.Vec{X: 8}
	inner := r3.Vec{X: 4}
	if got, want := s.MeanCurvature(outer), (6.0+2*2)/(2*2*(6+2)); math.Abs(got-want) > 1e-9 {
		t.Errorf("outer equator H = %g, want %g", got, want)
	}
	if got, want := s.MeanCurvature(inner), (6.0-2*2)/(2*2*(6-2)); math.Abs(got-want) > 1e-9 {
		t.Errorf("inner equator H = %g, want %g", got, want)
	}
	// Gaussian curvature is positive outside, negative inside.
	if got := s.GaussianCurvature(outer); got <= 0 {
		t.Errorf("outer equator K = %g, want > 0", got)
	}
	if got := s.GaussianCurvature(inner); got >= 0 {
		t.Errorf("inner equator K = %g, want < 0", got)
	}
}

func TestByNameCatalogAndExpressions(t *testing.T) {
	for _, name := range CatalogNames() {
		if _, err := ByName(name); err != nil {
			t.Errorf("catalog shape %q does not parse: %v", name, err)
		}
	}
	if _, err := ByName("x^2+y^2-4"); err != nil {
		t.Errorf("free-form expression rejected: %v", err)
	}
	if _, err := ByName("not a polynomial"); err == nil {
		t.Error("expected error for garbage input")
	}
}
