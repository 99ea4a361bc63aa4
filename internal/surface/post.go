package surface

import (
	"math"

	"efield/internal/mathutil"
)

// Post is a straight wire. Axis runs from Start to the far end; its length is
// the wire length.
type Post struct {
	Start      mathutil.Vec3
	Axis       mathutil.Vec3
	WireRadius float64
	frame
}

func NewPost(start, axis mathutil.Vec3, wireRadius float64) (*Post, error) {
	if wireRadius < 0 || axis.Len() == 0 {
		return nil, ErrBadGeometry
	}
	return &Post{Start: start, Axis: axis, WireRadius: wireRadius, frame: newFrame(axis)}, nil
}

// RandomPoint draws the position along the axis first, then the angle around it.
func (p *Post) RandomPoint(src Source) mathutil.Vec3 {
	az := src.Float64()
	phi := mathutil.TwoPi * src.Float64()

	ax := p.WireRadius * math.Cos(phi)
	ay := p.WireRadius * math.Sin(phi)
	return p.at(p.Start, ax, ay, az, p.Axis)
}

func (p *Post) Area() float64 {
	return mathutil.TwoPi * p.WireRadius * p.Axis.Len()
}
