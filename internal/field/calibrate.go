package field

import (
	"errors"
	"fmt"

	"efield/internal/mathutil"
)

var (
	ErrUnequalClouds  = errors.New("field: unequal number of positive and negative charges")
	ErrNoCharges      = errors.New("field: no charges")
	ErrEqualPotential = errors.New("field: conductors are at the same potential")
)

// Calibrated maps a relaxed charge cloud to real conductor voltages:
//
//	φ(x) = PhiInfinity + KQ·(Σ 1/d⁺ − Σ 1/d⁻)
type Calibrated struct {
	KQ          float64
	PhiInfinity float64
	Pos         []mathutil.Vec3
	Neg         []mathutil.Vec3
}

// Calibrate scales the cloud so that the mean potential over the positive
// charges is vPlus and over the negative charges is vMinus.
func Calibrate(pos, neg []mathutil.Vec3, vPlus, vMinus float64) (*Calibrated, error) {
	if len(pos) != len(neg) {
		return nil, fmt.Errorf("%w: %d and %d", ErrUnequalClouds, len(pos), len(neg))
	}
	n := len(pos)
	if n == 0 {
		return nil, ErrNoCharges
	}

	unit := Normalized()
	var posSum, negSum float64
	for i := 0; i < n; i++ {
		posSum += unit.PotentialOmit(pos[i], pos, i, neg, -1, 1)
		negSum += unit.PotentialOmit(neg[i], pos, -1, neg, i, 1)
	}
	phiPlus := posSum / float64(n)
	phiMinus := negSum / float64(n)
	if phiPlus == phiMinus {
		return nil, ErrEqualPotential
	}

	kq := (vPlus - vMinus) / (phiPlus - phiMinus)
	return &Calibrated{
		KQ:          kq,
		PhiInfinity: vPlus - kq*phiPlus,
		Pos:         pos,
		Neg:         neg,
	}, nil
}

func (c *Calibrated) PotentialAt(x mathutil.Vec3) float64 {
	return c.PhiInfinity + Normalized().Potential(x, c.Pos, c.Neg, c.KQ)
}

func (c *Calibrated) FieldAt(x mathutil.Vec3) mathutil.Vec3 {
	return Normalized().E(x, c.Pos, c.Neg, c.KQ)
}
