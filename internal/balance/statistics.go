package balance

import (
	"fmt"
	"math"
)

// Statistics are the mean and sample standard deviation of the potential at
// each particle of one polarity, from the full current system.
type Statistics struct {
	PosMean   float64
	PosStdDev float64
	NegMean   float64
	NegStdDev float64
}

// Ratio is PosMean / NegMean; -1 for a symmetric pair of conductors.
func (s Statistics) Ratio() float64 { return s.PosMean / s.NegMean }

// Statistics needs at least two particles per polarity.
func (b *Balancer) Statistics() (Statistics, error) {
	n := len(b.pos)
	if n < 2 {
		return Statistics{}, fmt.Errorf("%w: got %d", ErrTooFewParticles, n)
	}
	var ps, ps2, ns, ns2 float64
	for i, x := range b.pos {
		phi := b.field.PotentialOmit(x, b.pos, i, b.neg, -1, b.charge)
		ps += phi
		ps2 += phi * phi
	}
	for i, x := range b.neg {
		phi := b.field.PotentialOmit(x, b.pos, -1, b.neg, i, b.charge)
		ns += phi
		ns2 += phi * phi
	}
	pm, psd := meanStdDev(ps, ps2, n)
	nm, nsd := meanStdDev(ns, ns2, n)
	return Statistics{PosMean: pm, PosStdDev: psd, NegMean: nm, NegStdDev: nsd}, nil
}

// meanStdDev uses the running sum and sum of squares. Rounding can leave a
// tiny negative variance for a near-constant sample; that reads as 0.
func meanStdDev(sum, sum2 float64, n int) (mean, sd float64) {
	fn := float64(n)
	mean = sum / fn
	v := (sum2 - fn*mean*mean) / (fn - 1)
	if v < 0 {
		v = 0
	}
	return mean, math.Sqrt(v)
}
