package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efield/internal/balance"
	"efield/internal/field"
	"efield/internal/mathutil"
)

func TestSummarize(t *testing.T) {
	s := Summarize(balance.Statistics{PosMean: 2e11, PosStdDev: 2e9, NegMean: -2e11, NegStdDev: 4e9}, true)
	assert.Equal(t, 4e11, s.DeltaPhi)
	assert.InDelta(t, 1.0, s.PosSpread, 1e-12)
	assert.InDelta(t, 2.0, s.NegSpread, 1e-12)
	assert.InDelta(t, 2.5, s.Capacitance, 1e-12)

	s = Summarize(balance.Statistics{PosMean: 1, NegMean: -1}, false)
	assert.Equal(t, 0.0, s.Capacitance)

	s = Summarize(balance.Statistics{}, true)
	assert.Equal(t, 0.0, s.Capacitance)
	assert.Equal(t, 0.0, s.PosSpread)
	assert.False(t, s.Inverted)
}

func TestSummarizeInverted(t *testing.T) {
	// paired charges leave the positive conductor below the negative one
	s := Summarize(balance.Statistics{PosMean: -2e11, NegMean: 2e11}, true)
	assert.True(t, s.Inverted)
	assert.Equal(t, -4e11, s.DeltaPhi)
	assert.InDelta(t, -2.5, s.Capacitance, 1e-12)

	s = Summarize(balance.Statistics{PosMean: -1, NegMean: 1}, false)
	assert.True(t, s.Inverted)
	assert.Equal(t, 0.0, s.Capacitance)
}

func TestWriteParticles(t *testing.T) {
	var buf bytes.Buffer
	pos := []mathutil.Vec3{{1, 0, 0.05}}
	neg := []mathutil.Vec3{{-0.5, 0.25, -0.05}}
	require.NoError(t, WriteParticles(&buf, pos, neg))

	want := "particles 1 1\n" +
		"    1.0000    0.0000    0.0500\n" +
		"   -0.5000    0.2500   -0.0500\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteScan(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScan(&buf, []field.Sample{
		{T: 0, Position: mathutil.Vec3{0, 0, -1}, Potential: -2, Field: 3},
		{T: 1, Position: mathutil.Vec3{0, 0, 1}, Potential: 2, Field: 3},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "phi")
	assert.Contains(t, lines[2], "2.000000e+00")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	info := RunInfo{ID: "abc", Seed: 42, Particles: 50, Sweeps: 100, Physical: true, Elapsed: 90 * time.Second, Cancelled: true}
	s := Summarize(balance.Statistics{PosMean: 5e11, NegMean: -5e11}, true)
	require.NoError(t, WriteSummary(&buf, info, s))

	out := buf.String()
	assert.Contains(t, out, "Seed = 42")
	assert.Contains(t, out, "Run time = 1.500 minutes")
	assert.Contains(t, out, "terminated early")
	assert.Contains(t, out, "Capacitance = 1.0000 pF")
	assert.NotContains(t, out, InvertedWarning)
}

func TestWriteSummaryInverted(t *testing.T) {
	var buf bytes.Buffer
	info := RunInfo{ID: "abc", Seed: 7, Particles: 4, Sweeps: 10, Physical: true}
	s := Summarize(balance.Statistics{PosMean: -5e11, NegMean: 5e11}, true)
	require.NoError(t, WriteSummary(&buf, info, s))

	out := buf.String()
	assert.Contains(t, out, "Capacitance = -1.0000 pF")
	assert.Contains(t, out, InvertedWarning)
}

func TestChargesRoundTrip(t *testing.T) {
	pos := []mathutil.Vec3{{1, 2, 3}, {4, 5, 6}}
	neg := []mathutil.Vec3{{-1, -2, -3}, {0.5, 0, 0}}
	var buf bytes.Buffer
	require.NoError(t, WriteCharges(&buf, pos, neg))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 4)
	assert.EqualValues(t, 1, raw[0]["charge"])
	assert.EqualValues(t, -1, raw[3]["charge"])

	gotPos, gotNeg, err := ReadCharges(bytes.NewReader(buf.Bytes()), 0.01)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{0.01, 0.02, 0.03}, gotPos[0])
	assert.Equal(t, mathutil.Vec3{0.005, 0, 0}, gotNeg[1])
}

func TestReadChargesErrors(t *testing.T) {
	_, _, err := ReadCharges(strings.NewReader(`[{"x":0,"y":0,"z":0,"charge":2}]`), 1)
	assert.ErrorIs(t, err, ErrChargeValue)

	_, _, err = ReadCharges(strings.NewReader(`{"x":0}`), 1)
	assert.Error(t, err)
}

func TestEncodeManifest(t *testing.T) {
	s := Summarize(balance.Statistics{PosMean: 1, NegMean: -1}, false)
	m := Manifest{
		RunID:     "id",
		Seed:      7,
		Particles: 3,
		Summary:   NewManifestSummary(s),
		Artifacts: map[string]string{"report": "out.txt"},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, m))

	data := buf.Bytes()
	var back Manifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "id", back.RunID)
	assert.Equal(t, 2.0, back.Summary.DeltaPhi)
	assert.Equal(t, "out.txt", back.Artifacts["report"])
	assert.NotContains(t, string(data), "capacitance_pf")
	assert.NotContains(t, string(data), "inverted")
}
