// Package varifold estimates local curvature vectors at sample elements
// of a digitized surface (face centroids or mesh vertices) using a
// discrete varifold formulation: curvature at a point is an integral,
// over a ball of radius R, of unit vectors toward nearby samples
// projected against each neighbor's normal and weighted by a radially
// decaying kernel.
//
// The package is pure computation: it performs no I/O and keeps no state
// across runs. Mesh construction, normal fields, ground-truth curvature
// and reporting live in the surrounding packages.
package varifold
