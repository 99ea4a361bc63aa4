package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"efield/internal/config"
	"efield/internal/field"
	"efield/internal/observability"
	"efield/internal/report"
)

type fieldOptions struct {
	charges string
	scan    string
	out     string
	vPlus   float64
	vMinus  float64
	scale   float64
}

func newFieldCmd() *cobra.Command {
	var o fieldOptions
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Scan the calibrated potential of a saved charge cloud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			if o.out == "" {
				return fieldScan(cmd.OutOrStdout(), o, logger)
			}
			f, err := os.Create(o.out)
			if err != nil {
				return err
			}
			if err := fieldScan(f, o, logger); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.charges, "charges", "", "JSON charge cloud written by run --charges")
	f.StringVar(&o.scan, "scan", "", "scan line x0,y0,z0:x1,y1,z1:N")
	f.StringVarP(&o.out, "out", "o", "", "output file (default stdout)")
	f.Float64Var(&o.vPlus, "vplus", 1, "voltage of the positive conductor")
	f.Float64Var(&o.vMinus, "vminus", -1, "voltage of the negative conductor")
	f.Float64Var(&o.scale, "scale", 1, "factor applied to charge coordinates")
	_ = cmd.MarkFlagRequired("charges")
	_ = cmd.MarkFlagRequired("scan")
	return cmd
}

// fieldScan calibrates the cloud to the two conductor voltages and writes the
// potential and field strength along the scan line.
func fieldScan(w io.Writer, o fieldOptions, logger *zap.Logger) error {
	sc, err := config.ParseScan(o.scan)
	if err != nil {
		return err
	}
	in, err := os.Open(o.charges)
	if err != nil {
		return err
	}
	pos, neg, err := report.ReadCharges(in, o.scale)
	in.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", o.charges, err)
	}

	c, err := field.Calibrate(pos, neg, o.vPlus, o.vMinus)
	if err != nil {
		return err
	}
	logger.Info("calibrated",
		zap.Int("positives", len(pos)),
		zap.Int("negatives", len(neg)),
		zap.Float64("kq", c.KQ),
		zap.Float64("phi_infinity", c.PhiInfinity))

	samples, err := field.Scan(c, sc.From, sc.To, sc.Points)
	if err != nil {
		return err
	}
	return report.WriteScan(w, samples)
}
