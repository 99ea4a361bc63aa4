package mathutil

import "math"

// TwoPi is the full turn used by every angular sampler. Multiplying by the
// precomputed constant matches evaluating 2.0*math.Pi*u left to right.
const TwoPi = 2 * math.Pi

// LatitudeCos maps a latitude in degrees to the cosine of the polar angle.
// The poles are returned exactly so that a full sphere spans [-1, 1].
func LatitudeCos(deg float64) float64 {
	switch deg {
	case 90:
		return 1
	case -90:
		return -1
	}
	return math.Sin(Deg2Rad(deg))
}
