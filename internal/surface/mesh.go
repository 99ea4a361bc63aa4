package surface

import (
	"sort"

	"efield/internal/mathutil"
)

// Triangle is one facet handed over by a mesh loader. Vertices are in meters;
// the normal is carried for diagnostics only.
type Triangle struct {
	Normal     mathutil.Vec3
	V1, V2, V3 mathutil.Vec3
}

// Area returns |(V2-V1) × (V3-V1)| / 2.
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Len() / 2.0
}

// meshTriangle keeps a vertex and two edges, the form the sampler needs.
type meshTriangle struct {
	a, ab, ac mathutil.Vec3
}

func (t meshTriangle) randomPoint(src Source) mathutil.Vec3 {
	r1 := src.Float64()
	r2 := src.Float64()
	if r1+r2 > 1.0 {
		r1 = 1.0 - r1
		r2 = 1.0 - r2
	}
	return t.a.Add(t.ab.Scale(r1)).Add(t.ac.Scale(r2))
}

// Mesh is a triangulated surface sampled uniformly by area.
type Mesh struct {
	triangles  []meshTriangle
	cumulative []float64 // ascending running sum of triangle areas
	total      float64
}

// NewMesh builds the cumulative-area table. Degenerate triangles are kept but
// add nothing to the table, so they are never picked.
func NewMesh(tris []Triangle) (*Mesh, error) {
	if len(tris) == 0 {
		return nil, ErrEmptyMesh
	}
	m := &Mesh{
		triangles:  make([]meshTriangle, len(tris)),
		cumulative: make([]float64, len(tris)),
	}
	var sum float64
	for i, t := range tris {
		mt := meshTriangle{a: t.V1, ab: t.V2.Sub(t.V1), ac: t.V3.Sub(t.V1)}
		m.triangles[i] = mt
		sum += mt.ab.Cross(mt.ac).Len() / 2.0
		m.cumulative[i] = sum
	}
	if sum <= 0 {
		return nil, ErrZeroArea
	}
	m.total = sum
	return m, nil
}

func (m *Mesh) TriangleCount() int { return len(m.triangles) }

func (m *Mesh) Area() float64 { return m.total }

// Triangle returns triangle i, its vertices rebuilt from the stored edges.
func (m *Mesh) Triangle(i int) Triangle {
	t := m.triangles[i]
	return Triangle{V1: t.a, V2: t.a.Add(t.ab), V3: t.a.Add(t.ac)}
}

// Pick maps a uniform u to the index of the triangle covering area u·total.
func (m *Mesh) Pick(u float64) int {
	i := sort.SearchFloat64s(m.cumulative, m.total*u)
	if i >= len(m.triangles) {
		i = len(m.triangles) - 1
	}
	return i
}

func (m *Mesh) RandomPoint(src Source) mathutil.Vec3 {
	return m.triangles[m.Pick(src.Float64())].randomPoint(src)
}
