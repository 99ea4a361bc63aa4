package surface

import (
	"fmt"
	"math"

	"efield/internal/mathutil"
)

// SphereSegment is the band of a sphere between two latitudes.
//
// Axis points from the center to the north pole; its length is ignored.
// North 90 / South -90 is the whole sphere, North 90 / South 0 a hemisphere.
type SphereSegment struct {
	Center mathutil.Vec3
	Axis   mathutil.Vec3 // unit length
	Radius float64
	North  float64 // degrees
	South  float64 // degrees
	frame
	cos1, cos2 float64 // cos(polar angle) at South and North
}

func NewSphereSegment(center, axis mathutil.Vec3, radius, north, south float64) (*SphereSegment, error) {
	if north > 90 || south < -90 || south >= north {
		return nil, fmt.Errorf("%w: north %g, south %g", ErrLatitude, north, south)
	}
	if radius <= 0 || axis.Len() == 0 {
		return nil, ErrBadGeometry
	}
	return &SphereSegment{
		Center: center,
		Axis:   axis.Normalize(),
		Radius: radius,
		North:  north,
		South:  south,
		frame:  newFrame(axis),
		cos1:   mathutil.LatitudeCos(south),
		cos2:   mathutil.LatitudeCos(north),
	}, nil
}

// RandomPoint draws cos(polar angle) uniformly, which is uniform in area.
func (s *SphereSegment) RandomPoint(src Source) mathutil.Vec3 {
	cosTheta := s.cos1 + (s.cos2-s.cos1)*src.Float64()
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	phi := mathutil.TwoPi * src.Float64()

	ax := s.Radius * math.Cos(phi) * sinTheta
	ay := s.Radius * math.Sin(phi) * sinTheta
	az := s.Radius * cosTheta
	return s.at(s.Center, ax, ay, az, s.Axis)
}

func (s *SphereSegment) Area() float64 {
	return mathutil.TwoPi * s.Radius * s.Radius * (s.cos2 - s.cos1)
}
