package geometry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"efield/internal/surface"
)

const triangleSTL = `solid tri
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1000 0 0
vertex 0 2000 0
endloop
endfacet
endsolid tri
`

func writeSTL(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(triangleSTL), 0o644))
	return path
}

func TestDefFromMap(t *testing.T) {
	def, err := DefFromMap(map[string]any{
		"Type":   "Sphere",
		"charge": -1,
		"radius": 0.5,
		"south":  "0",
	})
	require.NoError(t, err)
	assert.Equal(t, "sphere", def.Type)
	assert.Equal(t, -1, def.Charge)
	assert.Equal(t, "0.5", def.Params["radius"])

	_, err = DefFromMap(map[string]any{"type": "ring", "charge": 1, "X": 1, "x": 2})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = DefFromMap(map[string]any{"type": "ring", "charge": 0})
	assert.ErrorIs(t, err, ErrCharge)
}

func TestBuildAllTypes(t *testing.T) {
	dir := t.TempDir()
	writeSTL(t, dir, "plate.stl")

	defs := []ShapeDef{
		{Type: "ring", Charge: 1, Params: map[string]string{"radius": "1", "az": "2"}},
		{Type: "torus", Charge: 1, Params: map[string]string{"radius": "1", "wirediameter": "0.02"}},
		{Type: "torussegment", Charge: 1, Params: map[string]string{
			"radius": "1", "radius2": "0.1", "theta": "0", "phi": "0", "phi2": "0", "phi3": "pi*2",
		}},
		{Type: "post", Charge: -1, Params: map[string]string{"ax": "0", "ay": "0", "az": "0.3", "wireradius": "0.01"}},
		{Type: "sphere", Charge: -1, Params: map[string]string{"radius": "2", "north": "90", "south": "0"}},
		{Type: "mesh", Charge: -1, Params: map[string]string{"file": "plate.stl"}},
	}
	g, err := Build(defs, dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, g.Positive, 3)
	require.Len(t, g.Negative, 3)

	torus := g.Positive[1].(*surface.Torus)
	assert.Equal(t, 0.01, torus.WireRadius)

	mesh := g.Negative[2].(*surface.Mesh)
	// millimetres to meters: legs of 1 m and 2 m
	assert.InDelta(t, 1.0, mesh.Area(), 1e-12)
}

func TestBuildErrors(t *testing.T) {
	ring := ShapeDef{Type: "ring", Charge: 1, Params: map[string]string{"radius": "1"}}
	cases := []struct {
		name string
		def  ShapeDef
		want error
	}{
		{"unknown type", ShapeDef{Type: "cube", Charge: -1}, ErrShapeType},
		{"missing radius", ShapeDef{Type: "ring", Charge: -1, Params: map[string]string{}}, ErrMissing},
		{"bad number", ShapeDef{Type: "ring", Charge: -1, Params: map[string]string{"radius": "wide"}}, ErrBadValue},
		{"bad latitude", ShapeDef{Type: "sphere", Charge: -1, Params: map[string]string{"radius": "1", "north": "10", "south": "20"}}, surface.ErrLatitude},
		{"bad radius", ShapeDef{Type: "ring", Charge: -1, Params: map[string]string{"radius": "-1"}}, surface.ErrBadGeometry},
		{"missing mesh", ShapeDef{Type: "mesh", Charge: -1, Params: map[string]string{"file": "nope.stl"}}, os.ErrNotExist},
	}
	for _, tc := range cases {
		_, err := Build([]ShapeDef{ring, tc.def}, t.TempDir(), nil)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}

	_, err := Build([]ShapeDef{ring}, "", nil)
	assert.ErrorIs(t, err, ErrNoShapes)
}

func TestFromSTL(t *testing.T) {
	dir := t.TempDir()
	a := writeSTL(t, dir, "a.stl")
	c := writeSTL(t, dir, "c.stl")

	g, err := FromSTL(a, c, 1, nil)
	require.NoError(t, err)
	require.Len(t, g.Positive, 1)
	pos, neg := g.Area()
	assert.InDelta(t, 1e6, pos, 1e-6)
	assert.Equal(t, pos, neg)

	p := g.Positive[0].RandomPoint(&fixedSource{0.5})
	assert.Equal(t, 0.0, p[2])

	_, err = FromSTL(a, filepath.Join(dir, "missing.stl"), 1, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fixedSource struct{ u float64 }

func (f *fixedSource) Float64() float64 { return f.u }
func (f *fixedSource) Intn(n int) int { return min(int(f.u*float64(n)), n-1) }

var _ surface.Source = (*fixedSource)(nil)
