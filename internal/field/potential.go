// Package field evaluates the electrostatic potential and field of two clouds
// of equal point charges, one positive and one negative.
package field

import "efield/internal/mathutil"

// CoulombK is Coulomb's constant in volt-meters per coulomb.
const CoulombK = 8.9875517923e9

// Field holds the scale factor and the optional softening distance.
// With Cutoff 0 distances are plain Euclidean.
type Field struct {
	K      float64
	Cutoff float64
}

// Physical returns a field in volts for charges in coulombs.
func Physical() Field { return Field{K: CoulombK} }

// Normalized returns a field with K = 1, for relative comparisons only.
func Normalized() Field { return Field{K: 1} }

// Potential returns K·q·(Σ 1/d(x,p) − Σ 1/d(x,n)). A source exactly equal to x
// is taken to be x itself and skipped.
func (f Field) Potential(x mathutil.Vec3, pos, neg []mathutil.Vec3, q float64) float64 {
	var sum float64
	for _, p := range pos {
		if p == x {
			continue
		}
		sum += 1.0 / mathutil.SoftDistance(x, p, f.Cutoff)
	}
	for _, n := range neg {
		if n == x {
			continue
		}
		sum += -1.0 / mathutil.SoftDistance(x, n, f.Cutoff)
	}
	return f.K * sum * q
}

// PotentialOmit is Potential with the self term named by index instead of by
// coincidence. An index of -1 omits nothing from that cloud.
func (f Field) PotentialOmit(x mathutil.Vec3, pos []mathutil.Vec3, omitPos int, neg []mathutil.Vec3, omitNeg int, q float64) float64 {
	var sum float64
	for i, p := range pos {
		if i == omitPos {
			continue
		}
		sum += 1.0 / mathutil.SoftDistance(x, p, f.Cutoff)
	}
	for i, n := range neg {
		if i == omitNeg {
			continue
		}
		sum += -1.0 / mathutil.SoftDistance(x, n, f.Cutoff)
	}
	return f.K * sum * q
}

// E returns the field vector at x. Positive sources push away from themselves,
// negative sources pull toward themselves. Coincident sources are skipped.
func (f Field) E(x mathutil.Vec3, pos, neg []mathutil.Vec3, q float64) mathutil.Vec3 {
	var e mathutil.Vec3
	for _, p := range pos {
		if p == x {
			continue
		}
		d := mathutil.SoftDistance(x, p, f.Cutoff)
		e = e.Add(x.Sub(p).Scale(1.0 / (d * d * d)))
	}
	for _, n := range neg {
		if n == x {
			continue
		}
		d := mathutil.SoftDistance(x, n, f.Cutoff)
		e = e.Add(n.Sub(x).Scale(1.0 / (d * d * d)))
	}
	return e.Scale(f.K * q)
}
