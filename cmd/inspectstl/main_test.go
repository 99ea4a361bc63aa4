package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"efield/internal/mathutil"
	"efield/internal/stl"
)

func TestInspect(t *testing.T) {
	m := &stl.Model{Title: "plate", ASCII: true, Facets: []stl.Facet{
		{V1: mathutil.Vec3{0, 0, 0}, V2: mathutil.Vec3{1, 0, 0}, V3: mathutil.Vec3{0, 1, 0}},
		{V1: mathutil.Vec3{0, 0, 0}, V2: mathutil.Vec3{0, 1, 0}, V3: mathutil.Vec3{1, 0, 0}},
		{V1: mathutil.Vec3{0, 0, 0}, V2: mathutil.Vec3{1, 0, 0}, V3: mathutil.Vec3{2, 0, 0}},
	}}
	var buf bytes.Buffer
	inspect(&buf, "plate.stl", m, 1)
	out := buf.String()

	assert.Contains(t, out, `plate.stl: ascii, 3 facets, title "plate"`)
	assert.Contains(t, out, "BBox: X[0, 2] Y[0, 1] Z[0, 0]")
	assert.Contains(t, out, "Area: 1 (1 degenerate facets)")
	assert.Contains(t, out, "+Z: 0.5 (50.0%)")
	assert.Contains(t, out, "-Z: 0.5 (50.0%)")
	assert.NotContains(t, out, "+X")
}

func TestInspectScale(t *testing.T) {
	m := &stl.Model{Facets: []stl.Facet{
		{V1: mathutil.Vec3{0, 0, 0}, V2: mathutil.Vec3{0, 10, 0}, V3: mathutil.Vec3{0, 0, 10}},
	}}
	var buf bytes.Buffer
	inspect(&buf, "x.stl", m, 0.1)
	assert.Contains(t, buf.String(), "binary, 1 facets")
	assert.Contains(t, buf.String(), "Area: 0.5\n")
	assert.Contains(t, buf.String(), "+X: 0.5 (100.0%)")
}

func TestFacing(t *testing.T) {
	assert.Equal(t, "-Y", facing(mathutil.Vec3{0.1, -2, 1}))
	assert.Equal(t, "+Z", facing(mathutil.Vec3{0, 0, 1}))
	assert.Equal(t, "-X", facing(mathutil.Vec3{-1, 1, 1}))
}
