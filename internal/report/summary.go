// Package report turns relaxation results into text dumps, JSON exports and
// the capacitance estimate.
package report

import (
	"math"

	"efield/internal/balance"
)

// Summary is the derived view of the final statistics.
type Summary struct {
	Stats    balance.Statistics
	DeltaPhi float64 // PosMean - NegMean

	// Spreads are the standard deviations as a percentage of |mean|.
	PosSpread float64
	NegSpread float64

	// Capacitance in picofarads for one coulomb per conductor. Zero unless
	// the potentials are in volts. Negative when Inverted.
	Capacitance float64

	// Inverted is set when the positive conductor ends below the negative
	// one. Charges then sit in opposite-sign pairs across a gap narrower than
	// their spacing, and the capacitance is not a physical value.
	Inverted bool
}

func Summarize(s balance.Statistics, physical bool) Summary {
	sum := Summary{
		Stats:     s,
		DeltaPhi:  s.PosMean - s.NegMean,
		PosSpread: spread(s.PosStdDev, s.PosMean),
		NegSpread: spread(s.NegStdDev, s.NegMean),
		Inverted:  s.PosMean-s.NegMean < 0,
	}
	if physical && sum.DeltaPhi != 0 {
		sum.Capacitance = 1e12 / sum.DeltaPhi
	}
	return sum
}

func spread(sd, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return 100 * sd / math.Abs(mean)
}

// InvertedWarning explains an inverted result to the reader of a report.
const InvertedWarning = "Warning: positive conductor is below the negative one; charges have paired up across the gap and the capacitance is not physical"
