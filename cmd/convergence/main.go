// Command convergence sweeps the digitization gridstep and plots how the
// varifold curvature error behaves as the mesh is refined. The measuring
// ball follows R = scale * h^exponent, the usual multigrid setup.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/romain22222/DGtalTest/internal/digitize"
	"github.com/romain22222/DGtalTest/internal/evaluate"
	"github.com/romain22222/DGtalTest/internal/implicit"
	"github.com/romain22222/DGtalTest/internal/varifold"
)

var (
	poly       = flag.String("poly", "sphere9", "implicit polynomial: catalog name or expression")
	bound      = flag.Float64("bound", 10, "digitization space half-extent B")
	hMax       = flag.Float64("hmax", 1.0, "coarsest gridstep")
	hMin       = flag.Float64("hmin", 0.25, "finest gridstep")
	steps      = flag.Int("steps", 4, "number of gridsteps between hmax and hmin (geometric)")
	rScale     = flag.Float64("radius-scale", 3.0, "measuring-ball radius scale k in R = k*h^a")
	rExp       = flag.Float64("radius-exponent", 0.5, "measuring-ball radius exponent a in R = k*h^a")
	kernelName = flag.String("kernel", "cone", "weighting kernel")
	methodName = flag.String("method", "tnfc", "sampling method: tnfc|dnfc|cnfc")
	workers    = flag.Int("workers", 1, "parallel estimation workers")
	plotPath   = flag.String("plot", "convergence.png", "output plot path (empty to skip)")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type sweepPoint struct {
	H       float64
	Radius  float64
	Samples int
	ErrLinf float64
	ErrL2   float64
}

func run() error {
	surface, err := implicit.ByName(*poly)
	if err != nil {
		return err
	}
	kernel, err := varifold.KernelByName(*kernelName)
	if err != nil {
		return err
	}
	method, err := varifold.MethodByName(*methodName)
	if err != nil {
		return err
	}
	if *hMin <= 0 || *hMax < *hMin || *steps < 1 {
		return fmt.Errorf("invalid sweep: hmin=%g hmax=%g steps=%d", *hMin, *hMax, *steps)
	}

	var points []sweepPoint
	ratio := math.Pow(*hMin / *hMax, 1/float64(max(*steps-1, 1)))
	for i := 0; i < *steps; i++ {
		h := *hMax * math.Pow(ratio, float64(i))
		pt, err := runOne(surface, kernel, method, h)
		if err != nil {
			return fmt.Errorf("gridstep %g: %w", h, err)
		}
		points = append(points, pt)
		log.Printf("h=%-8.4g R=%-8.4g samples=%-7d |He-H|_oo=%-10.4g |He-H|_2=%.4g",
			pt.H, pt.Radius, pt.Samples, pt.ErrLinf, pt.ErrL2)
	}

	fmt.Printf("%-10s %-10s %-8s %-12s %-12s\n", "h", "R", "samples", "Linf", "L2")
	for _, pt := range points {
		fmt.Printf("%-10.4g %-10.4g %-8d %-12.4g %-12.4g\n", pt.H, pt.Radius, pt.Samples, pt.ErrLinf, pt.ErrL2)
	}

	if *plotPath == "" {
		return nil
	}
	return writePlot(points)
}

func runOne(surface *implicit.Surface, kernel varifold.Kernel, method varifold.Method, h float64) (sweepPoint, error) {
	radius := *rScale * math.Pow(h, *rExp)
	sm, err := digitize.PrimalSurface(surface, digitize.Params{
		Bound:    *bound,
		GridStep: h,
		Offset:   digitize.DefaultParams().Offset,
	})
	if err != nil {
		return sweepPoint{}, err
	}

	pipeline := varifold.Pipeline{
		Radius:  radius,
		Kernel:  kernel,
		Workers: *workers,
		NewIndex: func(points []r3.Vec) varifold.NeighborhoodIndex {
			return varifold.NewGridIndex(points, radius)
		},
	}
	var external []r3.Vec
	if method.Name() == "cnfc" {
		external = make([]r3.Vec, sm.NbFaces())
		for f := range external {
			external[f] = surface.Normal(sm.FaceCentroid(f))
		}
	}
	res, err := pipeline.Run(sm, method, external)
	if err != nil {
		return sweepPoint{}, err
	}

	expected := make([]float64, len(res.Varifolds))
	for i, v := range res.Varifolds {
		expected[i] = surface.MeanCurvature(v.Position)
	}
	diff, err := evaluate.AbsoluteDifference(res.Signed, expected)
	if err != nil {
		return sweepPoint{}, err
	}
	l2, err := evaluate.NormL2(res.Signed, expected)
	if err != nil {
		return sweepPoint{}, err
	}
	return sweepPoint{
		H:       h,
		Radius:  radius,
		Samples: len(res.Signed),
		ErrLinf: evaluate.Summarize(diff).Max,
		ErrL2:   l2,
	}, nil
}

func writePlot(points []sweepPoint) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: curvature error vs gridstep (%s/%s)", *poly, *kernelName, *methodName)
	p.X.Label.Text = "gridstep h"
	p.Y.Label.Text = "error"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	linf := make(plotter.XYs, len(points))
	l2 := make(plotter.XYs, len(points))
	for i, pt := range points {
		linf[i] = plotter.XY{X: pt.H, Y: pt.ErrLinf}
		l2[i] = plotter.XY{X: pt.H, Y: pt.ErrL2}
	}
	linfLine, err := plotter.NewLine(linf)
	if err != nil {
		return err
	}
	l2Line, err := plotter.NewLine(l2)
	if err != nil {
		return err
	}
	l2Line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(linfLine, l2Line)
	p.Legend.Add("Linf", linfLine)
	p.Legend.Add("L2", l2Line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *plotPath); err != nil {
		return err
	}
	log.Printf("wrote %s", *plotPath)
	return nil
}
