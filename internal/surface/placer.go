package surface

import "efield/internal/mathutil"

// Particle is a charge position plus the index of the surface that produced it.
type Particle struct {
	Position mathutil.Vec3
	Source   int
}

// Place picks one of surfaces uniformly by count, not by area, and samples a
// point on it. A single surface consumes no draw for the choice.
// surfaces must be non-empty.
func Place(surfaces []Surface, src Source) Particle {
	idx := 0
	if len(surfaces) > 1 {
		idx = src.Intn(len(surfaces))
	}
	return Particle{Position: surfaces[idx].RandomPoint(src), Source: idx}
}
