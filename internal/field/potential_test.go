package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efield/internal/mathutil"
	"efield/internal/rng"
)

func TestPotentialSkipsSelf(t *testing.T) {
	x := mathutil.Vec3{0.3, -0.2, 1}
	f := Normalized()

	phi := f.Potential(x, []mathutil.Vec3{x}, nil, 1)
	assert.False(t, math.IsInf(phi, 0) || math.IsNaN(phi))
	assert.Equal(t, 0.0, phi)

	near := x.Add(mathutil.Vec3{1e-9, 0, 0})
	phi = f.Potential(x, []mathutil.Vec3{near}, nil, 1)
	assert.InEpsilon(t, 1e9, phi, 1e-6)
}

func TestPotentialPairs(t *testing.T) {
	x := mathutil.Vec3{0, 0, 0}
	pos := []mathutil.Vec3{{2, 0, 0}}
	neg := []mathutil.Vec3{{0, 4, 0}}

	assert.InDelta(t, 0.25, Normalized().Potential(x, pos, neg, 1), 1e-15)
	assert.InDelta(t, CoulombK*0.25*0.5, Physical().Potential(x, pos, neg, 0.5), 1e-3)
}

func TestPotentialCutoff(t *testing.T) {
	f := Field{K: 1, Cutoff: 3}
	phi := f.Potential(mathutil.Vec3{}, []mathutil.Vec3{{4, 0, 0}}, nil, 1)
	assert.InDelta(t, 0.2, phi, 1e-15)

	// a zero cutoff is the plain inverse distance
	x, p := mathutil.Vec3{1, 2, 3}, mathutil.Vec3{-1, 0.5, 7}
	assert.Equal(t, 1/math.Sqrt(4+2.25+16), Field{K: 1}.Potential(x, []mathutil.Vec3{p}, nil, 1))
}

func TestPotentialOmitMatchesCoincidence(t *testing.T) {
	src := rng.New(0, 3)
	pos := make([]mathutil.Vec3, 20)
	neg := make([]mathutil.Vec3, 20)
	for i := range pos {
		pos[i] = mathutil.Vec3{src.Float64(), src.Float64(), src.Float64()}
		neg[i] = mathutil.Vec3{src.Float64(), src.Float64(), src.Float64() + 1}
	}
	f := Physical()
	for i := range pos {
		assert.Equal(t, f.Potential(pos[i], pos, neg, 0.05), f.PotentialOmit(pos[i], pos, i, neg, -1, 0.05))
		assert.Equal(t, f.Potential(neg[i], pos, neg, 0.05), f.PotentialOmit(neg[i], pos, -1, neg, i, 0.05))
	}
}

func TestPotentialOmitKeepsCoincidentNeighbour(t *testing.T) {
	x := mathutil.Vec3{1, 1, 1}
	pos := []mathutil.Vec3{x, x}
	f := Normalized()

	// by coincidence both are skipped, by index the twin is summed
	assert.Equal(t, 0.0, f.Potential(x, pos, nil, 1))
	assert.True(t, math.IsInf(f.PotentialOmit(x, pos, 0, nil, -1, 1), 1))
}

func TestE(t *testing.T) {
	f := Normalized()
	x := mathutil.Vec3{0, 0, 0}

	e := f.E(x, []mathutil.Vec3{{-2, 0, 0}}, nil, 1)
	assert.InDelta(t, 0.25, e[0], 1e-15)
	assert.Equal(t, 0.0, e[1])

	e = f.E(x, nil, []mathutil.Vec3{{0, 0, 2}}, 1)
	assert.InDelta(t, 0.25, e[2], 1e-15)

	e = f.E(x, []mathutil.Vec3{x}, []mathutil.Vec3{x}, 1)
	assert.Equal(t, mathutil.Vec3{}, e)
}

func TestEIsMinusGradient(t *testing.T) {
	pos := []mathutil.Vec3{{0.1, 0.2, 0.3}, {-0.5, 0, 1}}
	neg := []mathutil.Vec3{{1, -1, 0}, {0, 0, -1}}
	f := Normalized()
	x := mathutil.Vec3{0.4, 0.4, 0.1}
	e := f.E(x, pos, neg, 1)

	const h = 1e-6
	for axis := 0; axis < 3; axis++ {
		var dx mathutil.Vec3
		dx[axis] = h
		grad := (f.Potential(x.Add(dx), pos, neg, 1) - f.Potential(x.Sub(dx), pos, neg, 1)) / (2 * h)
		require.InDelta(t, -grad, e[axis], 1e-6, "axis %d", axis)
	}
}
