package field

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"efield/internal/mathutil"
)

// ErrScanPoints is returned for a scan with fewer than two samples.
var ErrScanPoints = errors.New("field: scan needs at least two points")

// Sample is one point of a scan.
type Sample struct {
	T         float64 // 0 at the start of the segment, 1 at the end
	Position  mathutil.Vec3
	Potential float64
	Field     float64 // |E|
}

// Evaluator is anything that can give a potential and a field vector at a point.
type Evaluator interface {
	PotentialAt(x mathutil.Vec3) float64
	FieldAt(x mathutil.Vec3) mathutil.Vec3
}

// Cloud binds a field to fixed charge positions.
type Cloud struct {
	Field Field
	Pos   []mathutil.Vec3
	Neg   []mathutil.Vec3
	Q     float64
}

func (c Cloud) PotentialAt(x mathutil.Vec3) float64 {
	return c.Field.Potential(x, c.Pos, c.Neg, c.Q)
}

func (c Cloud) FieldAt(x mathutil.Vec3) mathutil.Vec3 {
	return c.Field.E(x, c.Pos, c.Neg, c.Q)
}

// Scan samples ev at points evenly spaced from `from` to `to`, both included.
func Scan(ev Evaluator, from, to mathutil.Vec3, points int) ([]Sample, error) {
	if points < 2 {
		return nil, ErrScanPoints
	}
	ts := floats.Span(make([]float64, points), 0, 1)
	seg := to.Sub(from)
	out := make([]Sample, points)
	for i, t := range ts {
		x := from.Add(seg.Scale(t))
		out[i] = Sample{
			T:         t,
			Position:  x,
			Potential: ev.PotentialAt(x),
			Field:     ev.FieldAt(x).Len(),
		}
	}
	return out, nil
}
