package report

import (
	"errors"
	"fmt"
	"io"

	json "github.com/json-iterator/go"

	"efield/internal/mathutil"
)

var ErrChargeValue = errors.New("report: charge must be 1 or -1")

// Charge is one point charge in the exported cloud.
type Charge struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Charge int     `json:"charge"`
}

// WriteCharges writes the cloud as a JSON array, positives first.
func WriteCharges(w io.Writer, pos, neg []mathutil.Vec3) error {
	out := make([]Charge, 0, len(pos)+len(neg))
	for _, p := range pos {
		out = append(out, Charge{X: p[0], Y: p[1], Z: p[2], Charge: 1})
	}
	for _, p := range neg {
		out = append(out, Charge{X: p[0], Y: p[1], Z: p[2], Charge: -1})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("report: encode charges: %w", err)
	}
	return nil
}

// ReadCharges reads a cloud written by WriteCharges, multiplying coordinates
// by scale.
func ReadCharges(r io.Reader, scale float64) (pos, neg []mathutil.Vec3, err error) {
	var in []Charge
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, nil, fmt.Errorf("report: decode charges: %w", err)
	}
	for i, c := range in {
		v := mathutil.Vec3{c.X * scale, c.Y * scale, c.Z * scale}
		switch c.Charge {
		case 1:
			pos = append(pos, v)
		case -1:
			neg = append(neg, v)
		default:
			return nil, nil, fmt.Errorf("%w: entry %d has %d", ErrChargeValue, i, c.Charge)
		}
	}
	return pos, neg, nil
}
