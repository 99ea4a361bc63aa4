// Package geometry turns shape definitions from XML files, the run config or
// STL meshes into the positive and negative surface groups of a run.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"efield/internal/mathutil"
)

var (
	ErrNoShapes  = errors.New("geometry: there must be both positive and negative shapes")
	ErrCharge    = errors.New("geometry: charge must be 1 or -1")
	ErrShapeType = errors.New("geometry: unknown shape type")
	ErrMissing   = errors.New("geometry: missing value")
	ErrBadValue  = errors.New("geometry: invalid value")
	ErrXMLLayout = errors.New("geometry: bad XML layout")
	ErrDuplicate = errors.New("geometry: duplicate key")
)

// ShapeDef is one shape as written by the user: a type, a polarity and a flat
// set of named values. Keys are lower case.
type ShapeDef struct {
	Type   string
	Charge int
	Params map[string]string
}

// DefFromMap builds a ShapeDef from loosely typed key/value pairs, as they
// come out of a YAML or JSON config. The map must carry "type" and "charge".
func DefFromMap(m map[string]any) (ShapeDef, error) {
	params := make(map[string]string, len(m))
	for k, v := range m {
		s, err := cast.ToStringE(v)
		if err != nil {
			return ShapeDef{}, fmt.Errorf("%w: %s: %v", ErrBadValue, k, err)
		}
		key := strings.ToLower(k)
		if _, dup := params[key]; dup {
			return ShapeDef{}, fmt.Errorf("%w: %s", ErrDuplicate, key)
		}
		params[key] = strings.TrimSpace(s)
	}
	return defFromParams(params)
}

func defFromParams(params map[string]string) (ShapeDef, error) {
	typ, ok := params["type"]
	if !ok {
		return ShapeDef{}, fmt.Errorf("%w: a shape must have a type", ErrMissing)
	}
	cs, ok := params["charge"]
	if !ok {
		return ShapeDef{}, fmt.Errorf("%w: a shape must have a charge", ErrMissing)
	}
	charge, err := cast.ToIntE(cs)
	if err != nil || (charge != 1 && charge != -1) {
		return ShapeDef{}, fmt.Errorf("%w: %q", ErrCharge, cs)
	}
	delete(params, "type")
	delete(params, "charge")
	return ShapeDef{Type: strings.ToLower(typ), Charge: charge, Params: params}, nil
}

// params reads typed values out of a ShapeDef and remembers the first error.
type params struct {
	def ShapeDef
	err error
}

func (p *params) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *params) float(key string) float64 {
	s, ok := p.def.Params[key]
	if !ok {
		p.fail(fmt.Errorf("%w: a %s requires a value for %s", ErrMissing, p.def.Type, key))
		return 0
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		p.fail(fmt.Errorf("%w: %q for %s in %s definition", ErrBadValue, s, key, p.def.Type))
	}
	return v
}

func (p *params) floatOr(key string, def float64) float64 {
	if _, ok := p.def.Params[key]; !ok {
		return def
	}
	return p.float(key)
}

// angle reads radians. "pi*x" and "x*pi" are accepted.
func (p *params) angle(key string) float64 {
	s, ok := p.def.Params[key]
	if !ok {
		p.fail(fmt.Errorf("%w: a %s requires a value for %s", ErrMissing, p.def.Type, key))
		return 0
	}
	v, err := parseAngle(s)
	if err != nil {
		p.fail(fmt.Errorf("%w: %q for %s in %s definition", ErrBadValue, s, key, p.def.Type))
	}
	return v
}

func parseAngle(s string) (float64, error) {
	var words []string
	for _, w := range strings.Split(s, "*") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	scale := 1.0
	switch {
	case len(words) == 2 && strings.EqualFold(words[0], "pi"):
		s, scale = words[1], math.Pi
	case len(words) == 2 && strings.EqualFold(words[1], "pi"):
		s, scale = words[0], math.Pi
	case len(words) == 1:
		s = words[0]
	default:
		return 0, ErrBadValue
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// vec reads three values prefixed by p, like x/y/z or ax/ay/az.
func (p *params) vec(prefix string, def mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{
		p.floatOr(prefix+"x", def[0]),
		p.floatOr(prefix+"y", def[1]),
		p.floatOr(prefix+"z", def[2]),
	}
}

func (p *params) str(key string) string {
	s, ok := p.def.Params[key]
	if !ok || s == "" {
		p.fail(fmt.Errorf("%w: a %s requires a value for %s", ErrMissing, p.def.Type, key))
	}
	return s
}
