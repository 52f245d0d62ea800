// Package implicit evaluates trivariate polynomial level-set surfaces:
// parsing the expression syntax used on the command line, exact partial
// derivatives, and the mean/Gaussian curvature of the zero level set.
// The surface itself is the set {p : Eval(p) = 0}, with Eval < 0 inside.
package implicit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// monomial is one term coef * x^Px * y^Py * z^Pz.
type monomial struct {
	Coef float64
	Pow  [3]int
}

// Polynomial is a trivariate polynomial in x, y, z with float64
// coefficients, stored as collected monomials. The zero value is the
// zero polynomial.
type Polynomial struct {
	terms []monomial
}

// Eval evaluates the polynomial at a point.
func (p *Polynomial) Eval(v r3.Vec) float64 {
	sum := 0.0
	for _, t := range p.terms {
		sum += t.Coef * ipow(v.X, t.Pow[0]) * ipow(v.Y, t.Pow[1]) * ipow(v.Z, t.Pow[2])
	}
	return sum
}

func ipow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// Deriv returns the exact partial derivative along axis 0 (x), 1 (y) or
// 2 (z).
func (p *Polynomial) Deriv(axis int) *Polynomial {
	var out []monomial
	for _, t := range p.terms {
		if t.Pow[axis] == 0 {
			continue
		}
		d := t
		d.Coef *= float64(t.Pow[axis])
		d.Pow[axis]--
		out = append(out, d)
	}
	return collect(out)
}

// String renders the polynomial in the input syntax, highest total degree
// first. The zero polynomial renders as "0".
func (p *Polynomial) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	terms := make([]monomial, len(p.terms))
	copy(terms, p.terms)
	sort.Slice(terms, func(i, j int) bool {
		di := terms[i].Pow[0] + terms[i].Pow[1] + terms[i].Pow[2]
		dj := terms[j].Pow[0] + terms[j].Pow[1] + terms[j].Pow[2]
		if di != dj {
			return di > dj
		}
		return terms[i].Pow[0] > terms[j].Pow[0]
	})
	var b strings.Builder
	for i, t := range terms {
		c := t.Coef
		if i > 0 {
			if c < 0 {
				b.WriteString("-")
				c = -c
			} else {
				b.WriteString("+")
			}
		} else if c < 0 {
			b.WriteString("-")
			c = -c
		}
		var parts []string
		if c != 1 || t.Pow == [3]int{} {
			parts = append(parts, strconv.FormatFloat(c, 'g', -1, 64))
		}
		for axis, name := range [3]string{"x", "y", "z"} {
			switch {
			case t.Pow[axis] == 1:
				parts = append(parts, name)
			case t.Pow[axis] > 1:
				parts = append(parts, fmt.Sprintf("%s^%d", name, t.Pow[axis]))
			}
		}
		b.WriteString(strings.Join(parts, "*"))
	}
	return b.String()
}

func collect(terms []monomial) *Polynomial {
	byPow := map[[3]int]float64{}
	for _, t := range terms {
		byPow[t.Pow] += t.Coef
	}
	keys := make([][3]int, 0, len(byPow))
	for k, c := range byPow {
		if c != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	out := make([]monomial, len(keys))
	for i, k := range keys {
		out[i] = monomial{Coef: byPow[k], Pow: k}
	}
	return &Polynomial{terms: out}
}

func add(a, b *Polynomial) *Polynomial {
	return collect(append(append([]monomial{}, a.terms...), b.terms...))
}

func neg(a *Polynomial) *Polynomial {
	out := make([]monomial, len(a.terms))
	for i, t := range a.terms {
		t.Coef = -t.Coef
		out[i] = t
	}
	return &Polynomial{terms: out}
}

func mul(a, b *Polynomial) *Polynomial {
	var out []monomial
	for _, s := range a.terms {
		for _, t := range b.terms {
			out = append(out, monomial{
				Coef: s.Coef * t.Coef,
				Pow:  [3]int{s.Pow[0] + t.Pow[0], s.Pow[1] + t.Pow[1], s.Pow[2] + t.Pow[2]},
			})
		}
	}
	return collect(out)
}

func pow(a *Polynomial, n int) *Polynomial {
	out := constant(1)
	for i := 0; i < n; i++ {
		out = mul(out, a)
	}
	return out
}

func constant(c float64) *Polynomial {
	if c == 0 {
		return &Polynomial{}
	}
	return &Polynomial{terms: []monomial{{Coef: c}}}
}

func variable(axis int) *Polynomial {
	m := monomial{Coef: 1}
	m.Pow[axis] = 1
	return &Polynomial{terms: []monomial{m}}
}

// Parse reads a polynomial expression in the CLI syntax, e.g.
// "3*x^2*y-z^2*x*y+1" or "(x^2+y^2+z^2+32)^2-144*(x^2+y^2)".
// Supported: + - * ^ ( ), variables x y z, decimal constants. Exponents
// must be non-negative integer literals.
func Parse(expr string) (*Polynomial, error) {
	p := &parser{input: expr}
	poly, err := p.parseSum()
	if err != nil {
		return nil, fmt.Errorf("implicit: parsing %q: %w", expr, err)
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("implicit: parsing %q: unexpected %q at offset %d", expr, p.input[p.pos], p.pos)
	}
	return poly, nil
}

// MustParse is Parse for known-good catalog expressions.
func MustParse(expr string) *Polynomial {
	poly, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return poly
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// parseSum := parseProduct (('+'|'-') parseProduct)*
func (p *parser) parseSum() (*Polynomial, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left = add(left, right)
		case '-':
			p.pos++
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left = add(left, neg(right))
		default:
			return left, nil
		}
	}
}

// parseProduct := parsePower ('*' parsePower)*
func (p *parser) parseProduct() (*Polynomial, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.peek() == '*' {
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = mul(left, right)
	}
	return left, nil
}

// parsePower := parseAtom ('^' integer)?
func (p *parser) parsePower() (*Polynomial, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("expected integer exponent at offset %d", start)
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return nil, err
	}
	return pow(base, n), nil
}

// parseAtom := number | 'x' | 'y' | 'z' | '(' parseSum ')' | '-' parseAtom
func (p *parser) parseAtom() (*Polynomial, error) {
	switch c := p.peek(); {
	case c == '-':
		p.pos++
		inner, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return neg(inner), nil
	case c == '(':
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing ')' at offset %d", p.pos)
		}
		p.pos++
		return inner, nil
	case c == 'x':
		p.pos++
		return variable(0), nil
	case c == 'y':
		p.pos++
		return variable(1), nil
	case c == 'z':
		p.pos++
		return variable(2), nil
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.input) {
			c := p.input[p.pos]
			if c >= '0' && c <= '9' || c == '.' {
				p.pos++
				continue
			}
			break
		}
		v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q at offset %d", p.input[start:p.pos], start)
		}
		return constant(v), nil
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
	}
}
