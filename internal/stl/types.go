package stl

import (
	"math"

	"efield/internal/mathutil"
)

// Facet is one triangle. Attribute is the binary format's spare word and is
// always 0 for ASCII files.
type Facet struct {
	Normal     mathutil.Vec3
	V1, V2, V3 mathutil.Vec3
	Attribute  uint16
}

// Model holds every facet of a file, in file order. ASCII files with several
// solids are flattened into one list.
type Model struct {
	Title  string
	ASCII  bool
	Facets []Facet
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Model) Bounds() (lo, hi mathutil.Vec3) {
	if len(m.Facets) == 0 {
		return
	}
	lo = m.Facets[0].V1
	hi = lo
	for _, f := range m.Facets {
		for _, v := range [3]mathutil.Vec3{f.V1, f.V2, f.V3} {
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], v[k])
				hi[k] = math.Max(hi[k], v[k])
			}
		}
	}
	return lo, hi
}
