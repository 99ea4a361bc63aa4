package render

import (
	"math"

	"efield/internal/mathutil"
)

// Camera is an orthographic view that fits a set of world points into a
// square image with a margin.
type Camera struct {
	R      mathutil.Mat3
	center [3]float64
	scale  float64
	half   float64
}

// NewCamera looks at points from yaw/pitch degrees, world Z up.
func NewCamera(points []mathutil.Vec3, yaw, pitch float64, size, margin int) Camera {
	R := mathutil.ViewMatrix(yaw, pitch)

	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		t := R.MulVec3(p)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], t[k])
			hi[k] = math.Max(hi[k], t[k])
		}
	}
	if len(points) == 0 {
		lo, hi = [3]float64{}, [3]float64{}
	}

	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 1e-9 {
		span = 1e-9
	}
	return Camera{
		R:      R,
		center: [3]float64{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2},
		scale:  float64(size-2*margin) / span,
		half:   float64(size) / 2,
	}
}

// Project maps a world point to pixel x, y and a depth where larger is nearer.
func (c Camera) Project(v mathutil.Vec3) mathutil.Vec3 {
	t := c.R.MulVec3(v)
	return mathutil.Vec3{
		(t[0]-c.center[0])*c.scale + c.half,
		-(t[1]-c.center[1])*c.scale + c.half,
		t[2],
	}
}
