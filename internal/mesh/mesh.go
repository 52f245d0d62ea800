// Package mesh provides the combinatorial surface mesh consumed by the
// varifold estimator: positions, faces, the normal fields derived from
// them, and the 1-ring adjacency queries used for sign correction.
package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// SurfaceMesh is an indexed face set. Faces are polygons (the digitizer
// produces quads, generators may produce triangles) listed as ordered
// vertex indices with consistent winding: counter-clockwise seen from the
// outside, so Newell normals point outward.
type SurfaceMesh struct {
	Positions []r3.Vec
	Faces     [][]int

	faceNormals   []r3.Vec
	vertexNormals []r3.Vec

	// edgeFaces maps an undirected edge (lower vertex first) to the faces
	// incident on it. Built lazily by adjacency queries.
	edgeFaces map[[2]int][]int
	faceRings [][]int
	vertRings [][]int
}

// New validates the face list against the vertex count and returns the
// mesh. Derived fields (normals, adjacency) are computed on demand.
func New(positions []r3.Vec, faces [][]int) (*SurfaceMesh, error) {
	for fi, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("mesh: face %d has %d vertices", fi, len(face))
		}
		for _, v := range face {
			if v < 0 || v >= len(positions) {
				return nil, fmt.Errorf("mesh: face %d references vertex %d of %d", fi, v, len(positions))
			}
		}
	}
	return &SurfaceMesh{Positions: positions, Faces: faces}, nil
}

// NbFaces returns the number of faces.
func (m *SurfaceMesh) NbFaces() int { return len(m.Faces) }

// NbVertices returns the number of vertices.
func (m *SurfaceMesh) NbVertices() int { return len(m.Positions) }

// FaceCentroid returns the arithmetic mean of a face's vertex positions.
func (m *SurfaceMesh) FaceCentroid(f int) r3.Vec {
	var c r3.Vec
	for _, v := range m.Faces[f] {
		c = r3.Add(c, m.Positions[v])
	}
	return r3.Scale(1/float64(len(m.Faces[f])), c)
}

// FaceCentroids returns all face centroids, index-aligned with Faces.
func (m *SurfaceMesh) FaceCentroids() []r3.Vec {
	out := make([]r3.Vec, len(m.Faces))
	for f := range m.Faces {
		out[f] = m.FaceCentroid(f)
	}
	return out
}

// faceNewell computes the (unnormalized) Newell normal of a face. For
// planar convex polygons this matches the cross-product normal scaled by
// twice the face area.
func (m *SurfaceMesh) faceNewell(f int) r3.Vec {
	var n r3.Vec
	face := m.Faces[f]
	for i, vi := range face {
		vj := face[(i+1)%len(face)]
		p, q := m.Positions[vi], m.Positions[vj]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// FaceArea returns the area of face f.
func (m *SurfaceMesh) FaceArea(f int) float64 {
	return r3.Norm(m.faceNewell(f)) / 2
}

// FaceNormals returns unit face normals derived from vertex positions,
// index-aligned with Faces. Computed once and cached.
func (m *SurfaceMesh) FaceNormals() []r3.Vec {
	if m.faceNormals != nil {
		return m.faceNormals
	}
	m.faceNormals = make([]r3.Vec, len(m.Faces))
	for f := range m.Faces {
		n := m.faceNewell(f)
		if r3.Norm2(n) > 0 {
			n = r3.Unit(n)
		}
		m.faceNormals[f] = n
	}
	return m.faceNormals
}

// VertexNormals returns unit vertex normals derived by averaging incident
// face normals, index-aligned with Positions. Computed once and cached.
func (m *SurfaceMesh) VertexNormals() []r3.Vec {
	if m.vertexNormals != nil {
		return m.vertexNormals
	}
	fn := m.FaceNormals()
	m.vertexNormals = make([]r3.Vec, len(m.Positions))
	for f, face := range m.Faces {
		for _, v := range face {
			m.vertexNormals[v] = r3.Add(m.vertexNormals[v], fn[f])
		}
	}
	for v, n := range m.vertexNormals {
		if r3.Norm2(n) > 0 {
			m.vertexNormals[v] = r3.Unit(n)
		}
	}
	return m.vertexNormals
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (m *SurfaceMesh) buildEdgeFaces() {
	if m.edgeFaces != nil {
		return
	}
	m.edgeFaces = make(map[[2]int][]int)
	for f, face := range m.Faces {
		for i, vi := range face {
			vj := face[(i+1)%len(face)]
			k := edgeKey(vi, vj)
			m.edgeFaces[k] = append(m.edgeFaces[k], f)
		}
	}
}

// NeighborFaces returns the faces sharing an edge with face f, sorted and
// deduplicated. Cached after the first full traversal.
func (m *SurfaceMesh) NeighborFaces(f int) []int {
	if m.faceRings == nil {
		m.buildEdgeFaces()
		m.faceRings = make([][]int, len(m.Faces))
		for g, face := range m.Faces {
			seen := map[int]bool{}
			for i, vi := range face {
				vj := face[(i+1)%len(face)]
				for _, other := range m.edgeFaces[edgeKey(vi, vj)] {
					if other != g && !seen[other] {
						seen[other] = true
						m.faceRings[g] = append(m.faceRings[g], other)
					}
				}
			}
			sort.Ints(m.faceRings[g])
		}
	}
	return m.faceRings[f]
}

// NeighborVertices returns the vertices sharing an edge with vertex v,
// sorted and deduplicated. Cached after the first full traversal.
func (m *SurfaceMesh) NeighborVertices(v int) []int {
	if m.vertRings == nil {
		m.vertRings = make([][]int, len(m.Positions))
		seen := make([]map[int]bool, len(m.Positions))
		for i := range seen {
			seen[i] = map[int]bool{}
		}
		for _, face := range m.Faces {
			for i, vi := range face {
				vj := face[(i+1)%len(face)]
				if !seen[vi][vj] {
					seen[vi][vj] = true
					m.vertRings[vi] = append(m.vertRings[vi], vj)
				}
				if !seen[vj][vi] {
					seen[vj][vi] = true
					m.vertRings[vj] = append(m.vertRings[vj], vi)
				}
			}
		}
		for i := range m.vertRings {
			sort.Ints(m.vertRings[i])
		}
	}
	return m.vertRings[v]
}
