package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"efield/internal/field"
	"efield/internal/mathutil"
)

// WriteParticles writes the particle dump:
//
//	particles N N
//	   x   y   z      (positives, then negatives)
func WriteParticles(w io.Writer, pos, neg []mathutil.Vec3) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "particles %d %d\n", len(pos), len(neg))
	for _, set := range [][]mathutil.Vec3{pos, neg} {
		for _, p := range set {
			fmt.Fprintf(bw, "%10.4f%10.4f%10.4f\n", p[0], p[1], p[2])
		}
	}
	return bw.Flush()
}

// WriteScan writes one row per sample: t, position, potential and |E|.
func WriteScan(w io.Writer, samples []field.Sample) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%8s%12s%12s%12s%14s%14s\n", "t", "x", "y", "z", "phi", "|E|")
	for _, s := range samples {
		fmt.Fprintf(bw, "%8.4f%12.6f%12.6f%12.6f%14.6e%14.6e\n",
			s.T, s.Position[0], s.Position[1], s.Position[2], s.Potential, s.Field)
	}
	return bw.Flush()
}

// RunInfo describes the run a summary belongs to.
type RunInfo struct {
	ID        string
	Seed      int64
	Particles int
	Sweeps    int
	Cutoff    float64
	Physical  bool
	Elapsed   time.Duration
	Cancelled bool
}

func WriteSummary(w io.Writer, info RunInfo, s Summary) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Run %s\n", info.ID)
	fmt.Fprintf(bw, "Seed = %d\n", info.Seed)
	fmt.Fprintf(bw, "Particles = %d per conductor\n", info.Particles)
	fmt.Fprintf(bw, "Cutoff c = %.4f\n", info.Cutoff)
	fmt.Fprintf(bw, "Sweeps = %d\n", info.Sweeps)
	if info.Cancelled {
		fmt.Fprintln(bw, "Interrupted, terminated early")
	}
	fmt.Fprintf(bw, "Run time = %.3f minutes\n", info.Elapsed.Minutes())
	fmt.Fprintf(bw, "Positive: mean %11.3e  sdev %11.3e  (%.2f%%)\n", s.Stats.PosMean, s.Stats.PosStdDev, s.PosSpread)
	fmt.Fprintf(bw, "Negative: mean %11.3e  sdev %11.3e  (%.2f%%)\n", s.Stats.NegMean, s.Stats.NegStdDev, s.NegSpread)
	fmt.Fprintf(bw, "Delta phi = %11.3e\n", s.DeltaPhi)
	if info.Physical && s.Capacitance != 0 {
		fmt.Fprintf(bw, "Capacitance = %.4f pF\n", s.Capacitance)
	}
	if s.Inverted {
		fmt.Fprintln(bw, InvertedWarning)
	}
	return bw.Flush()
}
