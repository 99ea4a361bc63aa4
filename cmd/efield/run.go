package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"efield/internal/config"
	"efield/internal/observability"
	"efield/internal/report"
	"efield/internal/run"
)

// runFlags maps command line flags onto config keys.
var runFlags = []struct {
	key, name, short, usage string
	kind                    string
}{
	{"geometry.file", "geometry", "g", "XML geometry file", "string"},
	{"geometry.anode", "anode", "", "STL mesh of the positive conductor", "string"},
	{"geometry.cathode", "cathode", "", "STL mesh of the negative conductor", "string"},
	{"geometry.mesh_scale", "mesh-scale", "", "factor from STL units to meters", "float"},
	{"run.particles", "particles", "n", "particles per conductor", "int"},
	{"run.sweeps", "sweeps", "", "sweeps to run, -1 until interrupted", "int"},
	{"run.batch", "batch", "", "sweeps between statistics", "int"},
	{"run.seed", "seed", "", "random seed, -1 derives one from the clock", "int64"},
	{"run.cutoff", "cutoff", "", "softening length added to every distance", "float"},
	{"run.normalized", "normalized", "", "drop the Coulomb constant from potentials", "bool"},
	{"output.report", "out", "o", "text report file", "string"},
	{"output.charges", "charges", "", "JSON charge cloud file", "string"},
	{"output.image", "image", "", "rendered cloud (.webp or .tga)", "string"},
	{"output.manifest", "manifest", "", "JSON run manifest file", "string"},
	{"output.scan", "scan", "", "potential scan x0,y0,z0:x1,y1,z1:N", "string"},
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Relax charges on the configured conductors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, time.Now)
			if err != nil {
				return err
			}
			out, err := run.Execute(cmd.Context(), cfg, observability.GetLogger(), version)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			res, s := out.Result, out.Summary
			fmt.Fprintf(w, "Seed = %d\n", cfg.Run.Seed)
			fmt.Fprintf(w, "Sweeps = %d", res.Sweeps)
			if res.Cancelled {
				fmt.Fprint(w, " (interrupted)")
			}
			fmt.Fprintln(w)
			if !res.HasStats {
				fmt.Fprintln(w, "Too few particles for statistics")
				return nil
			}
			fmt.Fprintf(w, "Positive: mean %11.3e  sdev %11.3e\n", s.Stats.PosMean, s.Stats.PosStdDev)
			fmt.Fprintf(w, "Negative: mean %11.3e  sdev %11.3e\n", s.Stats.NegMean, s.Stats.NegStdDev)
			if s.Capacitance != 0 {
				fmt.Fprintf(w, "Capacitance = %.4f pF\n", s.Capacitance)
			}
			if s.Inverted {
				fmt.Fprintln(w, report.InvertedWarning)
			}
			return nil
		},
	}

	f := cmd.Flags()
	for _, rf := range runFlags {
		switch rf.kind {
		case "string":
			f.StringP(rf.name, rf.short, "", rf.usage)
		case "float":
			f.Float64P(rf.name, rf.short, 0, rf.usage)
		case "int":
			f.IntP(rf.name, rf.short, 0, rf.usage)
		case "int64":
			f.Int64P(rf.name, rf.short, 0, rf.usage)
		case "bool":
			f.BoolP(rf.name, rf.short, false, rf.usage)
		}
		_ = v.BindPFlag(rf.key, f.Lookup(rf.name))
	}
	return cmd
}
