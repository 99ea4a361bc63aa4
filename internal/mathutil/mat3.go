package mathutil

// Mat3 is a row-major 3×3 matrix. Rotations in this package are Mat3 values,
// applied to positions with MulVec3.
type Mat3 [9]float64

// Row returns row r as a vector.
func (m Mat3) Row(r int) Vec3 { return Vec3{m[3*r], m[3*r+1], m[3*r+2]} }

// Col returns column c as a vector.
func (m Mat3) Col(c int) Vec3 { return Vec3{m[c], m[3+c], m[6+c]} }

// Mat3Mul returns a·b, so (a·b)·v rotates by b first.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := range 3 {
		row := a.Row(r)
		for c := range 3 {
			m[3*r+c] = row.Dot(b.Col(c))
		}
	}
	return m
}

// MulVec3 returns m·v. Each component is the row dot product, summed left to
// right.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}
