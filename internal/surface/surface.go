// Package surface holds the conductor shapes charges live on. Every shape can
// produce a random point that is uniformly distributed over its own
// parameterisation, drawing from a caller supplied random source.
package surface

import (
	"errors"

	"efield/internal/mathutil"
)

// Source is the slice of the generator API the samplers need. The run's single
// *rng.PseudoDES is passed on every call; surfaces never keep a reference.
type Source interface {
	Float64() float64
	// Intn returns a uniform index in [0, n) from a single Float64 draw.
	Intn(n int) int
}

// Surface is a 2-D manifold that can be sampled.
type Surface interface {
	// RandomPoint draws a point on the surface, consuming 1–3 uniforms from src.
	RandomPoint(src Source) mathutil.Vec3
	// Area is the surface area in m² (zero for the ideal ring).
	Area() float64
}

var (
	ErrLatitude    = errors.New("surface: invalid latitude cutoff")
	ErrEmptyMesh   = errors.New("surface: mesh has no triangles")
	ErrZeroArea    = errors.New("surface: mesh has zero total area")
	ErrBadGeometry = errors.New("surface: invalid shape dimensions")
)

// frame holds the orthonormal pair spanning the plane perpendicular to an axis.
type frame struct {
	perpX, perpY mathutil.Vec3
}

func newFrame(axis mathutil.Vec3) frame {
	px, py := axis.Perpendiculars()
	return frame{perpX: px, perpY: py}
}

// at returns origin + a·perpX + b·perpY + c·axis, accumulated left to right.
func (f frame) at(origin mathutil.Vec3, a, b, c float64, axis mathutil.Vec3) mathutil.Vec3 {
	return origin.Add(f.perpX.Scale(a)).Add(f.perpY.Scale(b)).Add(axis.Scale(c))
}
