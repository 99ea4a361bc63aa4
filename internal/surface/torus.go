package surface

import (
	"math"

	"efield/internal/mathutil"
)

// Torus is a ring made of wire with a finite radius.
type Torus struct {
	Center     mathutil.Vec3
	Axis       mathutil.Vec3 // unit length
	Radius     float64       // major radius
	WireRadius float64       // minor radius
	frame
}

func NewTorus(center, axis mathutil.Vec3, radius, wireRadius float64) (*Torus, error) {
	if radius <= 0 || wireRadius < 0 || axis.Len() == 0 {
		return nil, ErrBadGeometry
	}
	return &Torus{
		Center:     center,
		Axis:       axis.Normalize(),
		Radius:     radius,
		WireRadius: wireRadius,
		frame:      newFrame(axis),
	}, nil
}

// RandomPoint returns
//
//	center + (R + r·cosφ)·(cosθ·perpX + sinθ·perpY) + r·sinφ·axis
func (t *Torus) RandomPoint(src Source) mathutil.Vec3 {
	theta := mathutil.TwoPi * src.Float64()
	phi := mathutil.TwoPi * src.Float64()

	r1 := t.Radius + t.WireRadius*math.Cos(phi)
	ax := r1 * math.Cos(theta)
	ay := r1 * math.Sin(theta)
	az := t.WireRadius * math.Sin(phi)
	return t.at(t.Center, ax, ay, az, t.Axis)
}

func (t *Torus) Area() float64 {
	return 4 * math.Pi * math.Pi * t.Radius * t.WireRadius
}

// TorusSegment is a torus around the local Z axis whose minor angle is limited
// to [Phi2, Phi3], rotated by (Theta, Phi) and moved to Offset.
type TorusSegment struct {
	Radius  float64
	Radius2 float64
	Theta   float64 // rotation about Y, radians
	Phi     float64 // rotation about Z, radians
	Phi2    float64 // minor angle range start, radians
	Phi3    float64 // minor angle range end, radians
	Offset  mathutil.Vec3
}

func NewTorusSegment(radius, radius2, theta, phi, phi2, phi3 float64, offset mathutil.Vec3) (*TorusSegment, error) {
	if radius <= 0 || radius2 < 0 {
		return nil, ErrBadGeometry
	}
	return &TorusSegment{
		Radius:  radius,
		Radius2: radius2,
		Theta:   theta,
		Phi:     phi,
		Phi2:    phi2,
		Phi3:    phi3,
		Offset:  offset,
	}, nil
}

func (t *TorusSegment) RandomPoint(src Source) mathutil.Vec3 {
	a1 := mathutil.TwoPi * src.Float64()
	a2 := (t.Phi3-t.Phi2)*src.Float64() + t.Phi2
	r1 := t.Radius + t.Radius2*math.Cos(a2)
	v := mathutil.Vec3{r1 * math.Cos(a1), r1 * math.Sin(a1), t.Radius2 * math.Sin(a2)}
	return v.Rotate(t.Theta, t.Phi).Add(t.Offset)
}

// Area integrates 2π·(R + r·cos a)·r over the minor angle range.
func (t *TorusSegment) Area() float64 {
	span := t.Phi3 - t.Phi2
	return mathutil.TwoPi * t.Radius2 * math.Abs(t.Radius*span+t.Radius2*(math.Sin(t.Phi3)-math.Sin(t.Phi2)))
}
