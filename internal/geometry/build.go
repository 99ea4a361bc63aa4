package geometry

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"efield/internal/mathutil"
	"efield/internal/stl"
	"efield/internal/surface"
)

// DefaultMeshScale converts millimetre STL files to meters.
const DefaultMeshScale = 0.001

// Groups are the surfaces of each polarity, in definition order.
type Groups struct {
	Positive []surface.Surface
	Negative []surface.Surface
}

// Area returns the summed surface area per polarity.
func (g *Groups) Area() (pos, neg float64) {
	for _, s := range g.Positive {
		pos += s.Area()
	}
	for _, s := range g.Negative {
		neg += s.Area()
	}
	return pos, neg
}

// Build constructs every shape. Relative mesh paths resolve against baseDir.
func Build(defs []ShapeDef, baseDir string, logger *zap.Logger) (*Groups, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Groups{}
	for i, def := range defs {
		s, err := buildShape(def, baseDir)
		if err != nil {
			return nil, fmt.Errorf("geometry: shape %d (%s): %w", i, def.Type, err)
		}
		logger.Debug("shape built",
			zap.Int("index", i),
			zap.String("type", def.Type),
			zap.Int("charge", def.Charge),
			zap.Float64("area", s.Area()))
		if def.Charge > 0 {
			g.Positive = append(g.Positive, s)
		} else {
			g.Negative = append(g.Negative, s)
		}
	}
	if len(g.Positive) == 0 || len(g.Negative) == 0 {
		return nil, ErrNoShapes
	}
	logger.Info("geometry ready",
		zap.Int("positive_shapes", len(g.Positive)),
		zap.Int("negative_shapes", len(g.Negative)))
	return g, nil
}

func buildShape(def ShapeDef, baseDir string) (surface.Surface, error) {
	p := &params{def: def}
	zAxis := mathutil.Vec3{0, 0, 1}

	var s surface.Surface
	var err error
	switch def.Type {
	case "ring":
		center, axis, r := p.vec("", mathutil.Vec3{}), p.vec("a", zAxis), p.float("radius")
		if p.err == nil {
			s, err = surface.NewRing(center, axis, r)
		}
	case "torus":
		center, axis, r := p.vec("", mathutil.Vec3{}), p.vec("a", zAxis), p.float("radius")
		wr := p.wireRadius()
		if p.err == nil {
			s, err = surface.NewTorus(center, axis, r, wr)
		}
	case "torussegment":
		r, r2 := p.float("radius"), p.float("radius2")
		theta, phi := p.angle("theta"), p.angle("phi")
		phi2, phi3 := p.angle("phi2"), p.angle("phi3")
		offset := p.vec("", mathutil.Vec3{})
		if p.err == nil {
			s, err = surface.NewTorusSegment(r, r2, theta, phi, phi2, phi3, offset)
		}
	case "post":
		start, axis := p.vec("", mathutil.Vec3{}), p.vec("a", zAxis)
		wr := p.wireRadius()
		if p.err == nil {
			s, err = surface.NewPost(start, axis, wr)
		}
	case "sphere":
		center, axis, r := p.vec("", mathutil.Vec3{}), p.vec("a", zAxis), p.float("radius")
		north, south := p.floatOr("north", 90), p.floatOr("south", -90)
		if p.err == nil {
			s, err = surface.NewSphereSegment(center, axis, r, north, south)
		}
	case "mesh":
		file, scale := p.str("file"), p.floatOr("scale", DefaultMeshScale)
		if p.err == nil {
			if !filepath.IsAbs(file) {
				file = filepath.Join(baseDir, file)
			}
			s, err = LoadMesh(file, scale)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrShapeType, def.Type)
	}
	if p.err != nil {
		return nil, p.err
	}
	return s, err
}

// wireRadius accepts either wireradius or wirediameter.
func (p *params) wireRadius() float64 {
	if _, ok := p.def.Params["wirediameter"]; ok {
		return p.float("wirediameter") / 2
	}
	return p.floatOr("wireradius", 0)
}

// LoadMesh reads an STL file and scales its vertices into meters.
func LoadMesh(path string, scale float64) (*surface.Mesh, error) {
	m, err := stl.Parse(path)
	if err != nil {
		return nil, err
	}
	tris := make([]surface.Triangle, len(m.Facets))
	for i, f := range m.Facets {
		tris[i] = surface.Triangle{
			Normal: f.Normal,
			V1:     f.V1.Scale(scale),
			V2:     f.V2.Scale(scale),
			V3:     f.V3.Scale(scale),
		}
	}
	mesh, err := surface.NewMesh(tris)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// FromSTL builds one mesh surface per polarity from an anode and a cathode file.
func FromSTL(anode, cathode string, scale float64, logger *zap.Logger) (*Groups, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a, err := LoadMesh(anode, scale)
	if err != nil {
		return nil, fmt.Errorf("geometry: anode: %w", err)
	}
	c, err := LoadMesh(cathode, scale)
	if err != nil {
		return nil, fmt.Errorf("geometry: cathode: %w", err)
	}
	logger.Info("meshes loaded",
		zap.String("anode", anode),
		zap.Int("anode_triangles", a.TriangleCount()),
		zap.Float64("anode_area", a.Area()),
		zap.String("cathode", cathode),
		zap.Int("cathode_triangles", c.TriangleCount()),
		zap.Float64("cathode_area", c.Area()))
	return &Groups{Positive: []surface.Surface{a}, Negative: []surface.Surface{c}}, nil
}
