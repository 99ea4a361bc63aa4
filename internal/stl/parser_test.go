package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efield/internal/mathutil"
)

const asciiCube = `solid corner
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 0 0 2.5
      vertex 1e1 0 0
    endloop
  endfacet
endsolid corner
solid second
  facet normal 1 0 0
    outer loop
      vertex 3 0 0
      vertex 3 1 0
      vertex 3 0 1
    endloop
  endfacet
endsolid second
`

func binarySTL(title string, facets []Facet, count uint32) []byte {
	var buf bytes.Buffer
	header := make([]byte, headerSize)
	copy(header, title)
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, count)
	for _, f := range facets {
		for _, v := range []mathutil.Vec3{f.Normal, f.V1, f.V2, f.V3} {
			for k := 0; k < 3; k++ {
				binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(v[k])))
			}
		}
		binary.Write(&buf, binary.LittleEndian, f.Attribute)
	}
	return buf.Bytes()
}

func TestDecodeASCII(t *testing.T) {
	m, err := Decode([]byte(asciiCube))
	require.NoError(t, err)
	assert.True(t, m.ASCII)
	assert.Equal(t, "corner", m.Title)
	require.Len(t, m.Facets, 3)

	assert.Equal(t, mathutil.Vec3{0, 0, -1}, m.Facets[0].Normal)
	assert.Equal(t, mathutil.Vec3{0, 0, 2.5}, m.Facets[1].V2)
	assert.Equal(t, mathutil.Vec3{10, 0, 0}, m.Facets[1].V3)
	assert.Equal(t, mathutil.Vec3{3, 0, 1}, m.Facets[2].V3)

	lo, hi := m.Bounds()
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, lo)
	assert.Equal(t, mathutil.Vec3{10, 1, 2.5}, hi)
}

func TestDecodeASCIICRLF(t *testing.T) {
	crlf := bytes.ReplaceAll([]byte(asciiCube), []byte("\n"), []byte("\r\n"))
	m, err := Decode(crlf)
	require.NoError(t, err)
	assert.True(t, m.ASCII)
	assert.Len(t, m.Facets, 3)
}

func TestDecodeASCIIErrorCountsFacets(t *testing.T) {
	bad := bytes.Replace([]byte(asciiCube), []byte("vertex 3 1 0"), []byte("vertex 3 one 0"), 1)
	_, err := Decode(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "after 2 facets")

	bad = bytes.Replace([]byte(asciiCube), []byte("endloop"), []byte("endlop"), 1)
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "after 0 facets")
}

func TestDecodeBinary(t *testing.T) {
	facets := []Facet{
		{Normal: mathutil.Vec3{0, 0, 1}, V1: mathutil.Vec3{0, 0, 0}, V2: mathutil.Vec3{1, 0, 0}, V3: mathutil.Vec3{0, 1, 0}},
		{Normal: mathutil.Vec3{0, 0, 1}, V1: mathutil.Vec3{1, 0, 0}, V2: mathutil.Vec3{1, 1, 0}, V3: mathutil.Vec3{0, 1, 0.5}, Attribute: 7},
	}
	m, err := Decode(binarySTL("anode", facets, 2))
	require.NoError(t, err)
	assert.False(t, m.ASCII)
	assert.Equal(t, "anode", m.Title)
	assert.Equal(t, facets, m.Facets)
}

func TestDecodeBinaryWithSolidHeader(t *testing.T) {
	// Many exporters write "solid" into binary headers.
	facets := []Facet{{V2: mathutil.Vec3{1, 0, 0}, V3: mathutil.Vec3{0, 1, 0}}}
	m, err := Decode(binarySTL("solid exported by cad", facets, 1))
	require.NoError(t, err)
	assert.False(t, m.ASCII)
	assert.Len(t, m.Facets, 1)
}

func TestDecodeBinaryTruncated(t *testing.T) {
	facets := []Facet{{}, {}}
	raw := binarySTL("x", facets, 3)
	_, err := Decode(raw)
	require.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "after 2 facets")

	_, err = Decode(raw[:40])
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, []byte(asciiCube), 0o644))
	m, err := Parse(path)
	require.NoError(t, err)
	assert.Len(t, m.Facets, 3)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	m, err = Read(bytes.NewReader([]byte(asciiCube)))
	require.NoError(t, err)
	assert.Len(t, m.Facets, 3)

	short := filepath.Join(t.TempDir(), "short.stl")
	require.NoError(t, os.WriteFile(short, []byte("not a mesh"), 0o644))
	_, err = Parse(short)
	require.Error(t, err)
	assert.Contains(t, err.Error(), short+": stl: truncated binary header")
}
