// Package report renders an HTML comparison report for one estimation
// run: computed-versus-expected curvature scatter and an error histogram.
package report

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// histogramBins is the number of error histogram buckets.
const histogramBins = 40

// maxScatterPoints caps the scatter payload; larger runs are downsampled
// by stride to keep the HTML responsive.
const maxScatterPoints = 8000

// Run is the data behind one report.
type Run struct {
	Title    string
	Computed []float64
	Expected []float64
	Errors   []float64
}

// Write renders the report to an HTML file.
func Write(path string, run Run) error {
	if len(run.Computed) != len(run.Expected) {
		return fmt.Errorf("report: %d computed vs %d expected values", len(run.Computed), len(run.Expected))
	}

	page := components.NewPage()
	page.AddCharts(scatterChart(run), histogramChart(run.Errors))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("report: %w", err)
	}
	return f.Close()
}

func scatterChart(run Run) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: run.Title, Subtitle: "computed vs expected curvature"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "expected"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "computed"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	stride := 1
	if len(run.Computed) > maxScatterPoints {
		stride = int(math.Ceil(float64(len(run.Computed)) / float64(maxScatterPoints)))
	}
	data := make([]opts.ScatterData, 0, len(run.Computed)/stride+1)
	for i := 0; i < len(run.Computed); i += stride {
		data = append(data, opts.ScatterData{
			Value:      []interface{}{run.Expected[i], run.Computed[i]},
			SymbolSize: 4,
		})
	}
	sc.AddSeries("samples", data)
	return sc
}

func histogramChart(errors []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "absolute error distribution"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "|computed - expected|"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "samples"}),
	)

	if len(errors) == 0 {
		return bar
	}
	maxErr := errors[0]
	for _, e := range errors {
		if e > maxErr {
			maxErr = e
		}
	}
	if maxErr == 0 {
		maxErr = 1
	}
	counts := make([]int, histogramBins)
	for _, e := range errors {
		b := int(e / maxErr * float64(histogramBins))
		if b >= histogramBins {
			b = histogramBins - 1
		}
		counts[b]++
	}
	labels := make([]string, histogramBins)
	data := make([]opts.BarData, histogramBins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.3g", (float64(i)+0.5)/histogramBins*maxErr)
		data[i] = opts.BarData{Value: counts[i]}
	}
	bar.SetXAxis(labels).AddSeries("count", data)
	return bar
}
