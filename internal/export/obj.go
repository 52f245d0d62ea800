package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/romain22222/DGtalTest/internal/mesh"
)

// quantizeBuckets is the number of discrete materials written per OBJ.
const quantizeBuckets = 50

// WriteOBJ writes <prefix>.obj and <prefix>.mtl with one face material
// per quantized color bucket of the scalar field. values must be
// index-aligned with the mesh faces.
func WriteOBJ(prefix string, m *mesh.SurfaceMesh, values []float64, cmap GradientColorMap) error {
	if len(values) != m.NbFaces() {
		return fmt.Errorf("export: %d values for %d faces", len(values), m.NbFaces())
	}

	mtlPath := prefix + ".mtl"
	if err := writeMTL(mtlPath, cmap); err != nil {
		return err
	}

	f, err := os.Create(prefix + ".obj")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "mtllib %s\n", filepath.Base(mtlPath))
	for _, p := range m.Positions {
		fmt.Fprintf(w, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	// Group faces by bucket so each material is selected once per run of
	// faces, keeping the file small.
	byBucket := make([][]int, quantizeBuckets)
	for fi := 0; fi < m.NbFaces(); fi++ {
		b := cmap.Bucket(values[fi], quantizeBuckets)
		byBucket[b] = append(byBucket[b], fi)
	}
	for b, fs := range byBucket {
		if len(fs) == 0 {
			continue
		}
		fmt.Fprintf(w, "usemtl bucket%d\n", b)
		for _, fi := range fs {
			fmt.Fprint(w, "f")
			for _, v := range m.Faces[fi] {
				fmt.Fprintf(w, " %d", v+1)
			}
			fmt.Fprintln(w)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}

func writeMTL(path string, cmap GradientColorMap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	w := bufio.NewWriter(f)
	for b, c := range cmap.Quantize(quantizeBuckets) {
		fmt.Fprintf(w, "newmtl bucket%d\n", b)
		fmt.Fprintf(w, "Kd %.4f %.4f %.4f\n", float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}
