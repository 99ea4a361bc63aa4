package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"efield/internal/balance"
	"efield/internal/config"
	"efield/internal/field"
	"efield/internal/geometry"
	"efield/internal/render"
	"efield/internal/report"
	"efield/internal/rng"
	"efield/internal/surface"
)

// Outcome is what Execute hands back to the command line.
type Outcome struct {
	Result    *Result
	Summary   report.Summary
	Artifacts map[string]string // name -> path
}

// Execute runs a whole relaxation from a resolved configuration: build the
// conductors, place and relax the charges, then write every requested output.
func Execute(ctx context.Context, cfg *config.Config, logger *zap.Logger, version string) (*Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	started := time.Now()

	groups, err := LoadGeometry(cfg, logger)
	if err != nil {
		return nil, err
	}
	posArea, negArea := groups.Area()
	logger.Info("geometry ready",
		zap.Int("positive_surfaces", len(groups.Positive)),
		zap.Int("negative_surfaces", len(groups.Negative)),
		zap.Float64("positive_area", posArea),
		zap.Float64("negative_area", negArea))

	src := rng.New(0, uint32(cfg.Run.Seed))
	logger.Info("random source",
		zap.Int64("seed", cfg.Run.Seed),
		zap.Bool("from_clock", cfg.Run.SeedFromClock))

	f := field.Physical()
	if cfg.Run.Normalized {
		f = field.Normalized()
	}
	f.Cutoff = cfg.Run.Cutoff

	b, err := balance.New(cfg.Run.Particles, groups.Positive, groups.Negative, src,
		balance.WithField(f), balance.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	res, err := Run(ctx, b, Options{
		Sweeps:    cfg.Run.Sweeps,
		Batch:     cfg.Run.Batch,
		Heartbeat: 30 * time.Second,
	}, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	posAcc, negAcc := b.Accepted()
	logger.Info("moves accepted",
		zap.Int("positive", posAcc),
		zap.Int("negative", negAcc),
		zap.Uint64("generator_position", src.Seed()))

	out := &Outcome{
		Result:    res,
		Summary:   report.Summarize(res.Final, !cfg.Run.Normalized),
		Artifacts: map[string]string{},
	}
	if res.HasStats && out.Summary.Inverted {
		logger.Warn("inverted potentials, charges paired across the gap",
			zap.Float64("delta_phi", out.Summary.DeltaPhi),
			zap.Float64("capacitance_pf", out.Summary.Capacitance))
	}

	artifacts, err := buildArtifacts(cfg, b, groups, res, out.Summary, version, started)
	if err != nil {
		return nil, err
	}
	// outputs are still written for an interrupted run
	if err := WriteArtifacts(context.WithoutCancel(ctx), artifacts); err != nil {
		return nil, err
	}
	for _, a := range artifacts {
		out.Artifacts[a.Name] = a.Path
		logger.Info("wrote output", zap.String("artifact", a.Name), zap.String("path", a.Path))
	}
	return out, nil
}

// LoadGeometry builds the conductor surfaces from whichever source cfg names.
func LoadGeometry(cfg *config.Config, logger *zap.Logger) (*geometry.Groups, error) {
	g := cfg.Geometry
	switch {
	case g.File != "":
		defs, err := geometry.LoadXML(g.File)
		if err != nil {
			return nil, err
		}
		return geometry.Build(defs, filepath.Dir(g.File), logger)
	case len(g.Shapes) > 0:
		defs := make([]geometry.ShapeDef, 0, len(g.Shapes))
		for i, m := range g.Shapes {
			def, err := geometry.DefFromMap(m)
			if err != nil {
				return nil, fmt.Errorf("geometry: shape %d: %w", i, err)
			}
			defs = append(defs, def)
		}
		return geometry.Build(defs, cfg.BaseDir, logger)
	case g.Anode != "" && g.Cathode != "":
		return geometry.FromSTL(g.Anode, g.Cathode, g.MeshScale, logger)
	}
	return nil, config.ErrGeometrySource
}

func buildArtifacts(cfg *config.Config, b *balance.Balancer, groups *geometry.Groups, res *Result,
	sum report.Summary, version string, started time.Time) ([]Artifact, error) {
	pos, neg := b.PositivePositions(), b.NegativePositions()
	o := cfg.Output
	var artifacts []Artifact

	var samples []field.Sample
	if o.Scan != "" {
		sc, err := config.ParseScan(o.Scan)
		if err != nil {
			return nil, err
		}
		cloud := field.Cloud{Field: b.Field(), Pos: pos, Neg: neg, Q: b.Charge()}
		samples, err = field.Scan(cloud, sc.From, sc.To, sc.Points)
		if err != nil {
			return nil, err
		}
	}

	if o.Report != "" {
		info := report.RunInfo{
			ID:        res.ID.String(),
			Seed:      cfg.Run.Seed,
			Particles: b.N(),
			Sweeps:    res.Sweeps,
			Cutoff:    cfg.Run.Cutoff,
			Physical:  !cfg.Run.Normalized,
			Elapsed:   res.Elapsed,
			Cancelled: res.Cancelled,
		}
		artifacts = append(artifacts, Artifact{Name: "report", Path: o.Report, Write: func(f *os.File) error {
			if err := report.WriteSummary(f, info, sum); err != nil {
				return err
			}
			if err := report.WriteParticles(f, pos, neg); err != nil {
				return err
			}
			if samples != nil {
				return report.WriteScan(f, samples)
			}
			return nil
		}})
	}

	if o.Charges != "" {
		artifacts = append(artifacts, Artifact{Name: "charges", Path: o.Charges, Write: func(f *os.File) error {
			return report.WriteCharges(f, pos, neg)
		}})
	}

	if o.Image != "" {
		format, err := render.FormatFor(o.Image)
		if err != nil {
			return nil, err
		}
		scene := render.Scene{Positives: pos, Negatives: neg}
		if cfg.Render.ShowMesh {
			scene.Meshes = meshes(groups)
		}
		opts := render.Options{
			Size:        cfg.Render.Size,
			Supersample: cfg.Render.Supersample,
			Yaw:         cfg.Render.Yaw,
			Pitch:       cfg.Render.Pitch,
			DotRadius:   cfg.Render.DotRadius,
		}
		artifacts = append(artifacts, Artifact{Name: "image", Path: o.Image, Write: func(f *os.File) error {
			return render.Encode(f, render.Render(scene, opts), format)
		}})
	}

	if o.Manifest != "" {
		m := report.Manifest{
			RunID:      res.ID.String(),
			Version:    version,
			StartedAt:  started.UTC(),
			Seed:       cfg.Run.Seed,
			Particles:  b.N(),
			Sweeps:     res.Sweeps,
			Cancelled:  res.Cancelled,
			Cutoff:     cfg.Run.Cutoff,
			Normalized: cfg.Run.Normalized,
			Summary:    report.NewManifestSummary(sum),
			Artifacts:  map[string]string{},
		}
		for _, a := range artifacts {
			m.Artifacts[a.Name] = a.Path
		}
		artifacts = append(artifacts, Artifact{Name: "manifest", Path: o.Manifest, Write: func(f *os.File) error {
			return report.EncodeManifest(f, m)
		}})
	}
	return artifacts, nil
}

func meshes(g *geometry.Groups) []*surface.Mesh {
	var out []*surface.Mesh
	for _, set := range [][]surface.Surface{g.Positive, g.Negative} {
		for _, s := range set {
			if m, ok := s.(*surface.Mesh); ok {
				out = append(out, m)
			}
		}
	}
	return out
}
