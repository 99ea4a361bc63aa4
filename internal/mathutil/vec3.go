package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
// Positions are in meters once they reach the relaxation core.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// SoftDistance returns sqrt(|a-b|² + soft²). A zero soft is the Euclidean
// distance.
func SoftDistance(a, b Vec3, soft float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz + soft*soft)
}

// Rotate turns v by theta around the Y axis, then by phi around the Z axis.
func (v Vec3) Rotate(theta, phi float64) Vec3 {
	return RotZ(phi).MulVec3(RotY(theta).MulVec3(v))
}

// Perpendiculars returns two unit vectors orthogonal to v and to each other,
// oriented so that p0 × p1 points along v.
//
// When v lies (almost) on the Z axis the horizontal radius is too small to
// divide by and axis-aligned vectors are returned instead.
func (v Vec3) Perpendiculars() (p0, p1 Vec3) {
	x, y, z := v[0], v[1], v[2]
	r := math.Sqrt(x*x + y*y)
	l := math.Sqrt(x*x + y*y + z*z)
	zNorm := z / l
	if r < 1e-14 {
		return Vec3{zNorm, 0, 0}, Vec3{0, 1, 0}
	}
	p0 = Vec3{x * zNorm / r, y * zNorm / r, -r / l}
	p1 = Vec3{-y / r, x / r, 0}
	return p0, p1
}
