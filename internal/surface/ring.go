package surface

import (
	"math"

	"efield/internal/mathutil"
)

// Ring is an ideal circle of zero wire thickness.
type Ring struct {
	Center mathutil.Vec3
	Axis   mathutil.Vec3
	Radius float64
	frame
}

func NewRing(center, axis mathutil.Vec3, radius float64) (*Ring, error) {
	if radius <= 0 || axis.Len() == 0 {
		return nil, ErrBadGeometry
	}
	return &Ring{Center: center, Axis: axis, Radius: radius, frame: newFrame(axis)}, nil
}

func (r *Ring) RandomPoint(src Source) mathutil.Vec3 {
	theta := mathutil.TwoPi * src.Float64()
	c := r.Radius * math.Cos(theta)
	s := r.Radius * math.Sin(theta)
	return r.Center.Add(r.perpX.Scale(c)).Add(r.perpY.Scale(s))
}

func (r *Ring) Area() float64 { return 0 }
