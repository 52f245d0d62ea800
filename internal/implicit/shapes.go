package implicit

import (
	"fmt"
	"sort"
)

// Catalog lists the predefined implicit shapes accepted by name on the
// command line, mirroring the classical digital-geometry test shapes.
// All expressions are normalized to the negative-inside convention.
var Catalog = map[string]string{
	"sphere1":   "x^2+y^2+z^2-1",
	"sphere9":   "x^2+y^2+z^2-81",
	"ellipsoid": "3*x^2+2*y^2+z^2-90",
	"cylinder":  "x^2+z^2-90",
	"torus":     "(x^2+y^2+z^2+6*6-2*2)^2-4*6*6*(x^2+y^2)",
	"rcube":     "x^4+y^4+z^4-6561",
	"goursat":   "0.03*x^4+0.03*y^4+0.03*z^4-2*x^2-2*y^2-2*z^2-8",
	"leopold":   "x^2*y^2*z^2+4*x^2+4*y^2+3*z^2-100",
	"diabolo":   "x^2-(y^2+z^2)^2",
}

// ByName resolves either a catalog shape name or a free-form polynomial
// expression.
func ByName(nameOrExpr string) (*Surface, error) {
	expr, ok := Catalog[nameOrExpr]
	if !ok {
		expr = nameOrExpr
	}
	poly, err := Parse(expr)
	if err != nil {
		if ok {
			return nil, fmt.Errorf("implicit: catalog shape %q: %w", nameOrExpr, err)
		}
		return nil, err
	}
	return NewSurface(poly), nil
}

// CatalogNames returns the predefined shape names in sorted order, for
// usage text.
func CatalogNames() []string {
	names := make([]string, 0, len(Catalog))
	for name := range Catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
