package export

import (
	"bufio"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/romain22222/DGtalTest/internal/mesh"
)

func TestGradientAtEnds(t *testing.T) {
	g := CurvatureColorMap(-1, 1)
	blue := color.RGBA{B: 255, A: 255}
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := g.At(-1); got != blue {
		t.Errorf("At(min) = %v, want %v", got, blue)
	}
	if got := g.At(-5); got != blue {
		t.Errorf("At(below min) = %v, want clamp to %v", got, blue)
	}
	if got := g.At(1); got != magenta {
		t.Errorf("At(max) = %v, want %v", got, magenta)
	}
	if got := g.At(5); got != magenta {
		t.Errorf("At(above max) = %v, want clamp to %v", got, magenta)
	}
	// The doubled white stop makes the whole middle quarter white.
	if got := g.At(0); got != white {
		t.Errorf("At(0) = %v, want %v", got, white)
	}
}

func TestGradientDegenerate(t *testing.T) {
	g := GradientColorMap{Min: 1, Max: 1, Stops: []color.RGBA{{R: 10, A: 255}, {R: 20, A: 255}}}
	if got := g.At(3); got != (color.RGBA{R: 10, A: 255}) {
		t.Errorf("degenerate range At = %v, want first stop", got)
	}
	if got := (GradientColorMap{}).At(0); got != (color.RGBA{A: 255}) {
		t.Errorf("empty stops At = %v, want black", got)
	}
}

func TestBucket(t *testing.T) {
	g := GradientColorMap{Min: 0, Max: 10}
	cases := []struct {
		v    float64
		want int
	}{
		{-1, 0}, {0, 0}, {4.9, 4}, {5, 5}, {10, 9}, {11, 9},
	}
	for _, tc := range cases {
		if got := g.Bucket(tc.v, 10); got != tc.want {
			t.Errorf("Bucket(%g, 10) = %d, want %d", tc.v, got, tc.want)
		}
	}
	if got := len(g.Quantize(7)); got != 7 {
		t.Errorf("Quantize(7) returned %d colors", got)
	}
}

func TestWriteOBJ(t *testing.T) {
	m, err := mesh.New(
		[]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		[][]int{{0, 1, 2}, {0, 2, 3}},
	)
	if err != nil {
		t.Fatal(err)
	}
	prefix := filepath.Join(t.TempDir(), "out")
	cmap := CurvatureColorMap(-1, 1)
	if err := WriteOBJ(prefix, m, []float64{-0.5, 0.5}, cmap); err != nil {
		t.Fatal(err)
	}

	vs, fs, mtllib := scanOBJ(t, prefix+".obj")
	if vs != m.NbVertices() {
		t.Errorf("obj has %d vertex lines, want %d", vs, m.NbVertices())
	}
	if fs != m.NbFaces() {
		t.Errorf("obj has %d face lines, want %d", fs, m.NbFaces())
	}
	if mtllib != "out.mtl" {
		t.Errorf("mtllib = %q, want out.mtl", mtllib)
	}

	mtl, err := os.ReadFile(prefix + ".mtl")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(mtl), "newmtl "); got != quantizeBuckets {
		t.Errorf("mtl declares %d materials, want %d", got, quantizeBuckets)
	}

	if err := WriteOBJ(prefix, m, []float64{1}, cmap); err == nil {
		t.Error("expected error for value/face count mismatch")
	}
}

func scanOBJ(t *testing.T, path string) (vs, fs int, mtllib string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "v "):
			vs++
		case strings.HasPrefix(line, "f "):
			fs++
			// 1-based indices within range.
			for _, tok := range strings.Fields(line)[1:] {
				if tok == "0" {
					t.Errorf("face line %q uses 0-based index", line)
				}
			}
		case strings.HasPrefix(line, "mtllib "):
			mtllib = strings.TrimPrefix(line, "mtllib ")
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return vs, fs, mtllib
}
