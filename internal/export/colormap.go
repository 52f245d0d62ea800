// Package export writes estimation results as colored OBJ/MTL files,
// mapping scalar curvature through the historical blue-cyan-white-magenta
// gradient.
package export

import (
	"image/color"
	"math"
)

// GradientColorMap interpolates linearly between ordered color stops over
// the value range [Min, Max]. Values outside the range clamp to the ends.
type GradientColorMap struct {
	Min, Max float64
	Stops    []color.RGBA
}

// CurvatureColorMap is the gradient the original experiments used for
// curvature fields: blue through cyan to a wide white plateau, then
// magenta. The doubled white stop widens the near-zero band.
func CurvatureColorMap(minv, maxv float64) GradientColorMap {
	return GradientColorMap{
		Min: minv,
		Max: maxv,
		Stops: []color.RGBA{
			{B: 255, A: 255},
			{G: 255, B: 255, A: 255},
			{R: 255, G: 255, B: 255, A: 255},
			{R: 255, G: 255, B: 255, A: 255},
			{R: 255, B: 255, A: 255},
		},
	}
}

// At maps a scalar to a color. A degenerate range or an empty stop list
// yields the first stop (or black).
func (g GradientColorMap) At(v float64) color.RGBA {
	if len(g.Stops) == 0 {
		return color.RGBA{A: 255}
	}
	if len(g.Stops) == 1 || g.Max <= g.Min {
		return g.Stops[0]
	}
	t := (v - g.Min) / (g.Max - g.Min)
	if t <= 0 {
		return g.Stops[0]
	}
	if t >= 1 {
		return g.Stops[len(g.Stops)-1]
	}
	scaled := t * float64(len(g.Stops)-1)
	i := int(math.Floor(scaled))
	frac := scaled - float64(i)
	a, b := g.Stops[i], g.Stops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// Quantize buckets the gradient into n discrete colors, the form used
// for face materials.
func (g GradientColorMap) Quantize(n int) []color.RGBA {
	if n < 1 {
		n = 1
	}
	out := make([]color.RGBA, n)
	for i := 0; i < n; i++ {
		mid := g.Min + (float64(i)+0.5)/float64(n)*(g.Max-g.Min)
		out[i] = g.At(mid)
	}
	return out
}

// Bucket returns the quantized bucket index of v among n buckets.
func (g GradientColorMap) Bucket(v float64, n int) int {
	if g.Max <= g.Min {
		return 0
	}
	t := (v - g.Min) / (g.Max - g.Min)
	i := int(t * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
