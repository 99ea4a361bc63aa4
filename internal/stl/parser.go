// Package stl reads ASCII and binary STL triangle meshes.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"efield/internal/mathutil"
)

var ErrFormat = errors.New("file format error")

const (
	headerSize = 80
	recordSize = 50
)

// Parse reads an STL file from disk.
func Parse(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read decodes an STL stream.
func Read(r io.Reader) (*Model, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stl: read: %w", err)
	}
	return Decode(raw)
}

// Decode picks the format the way most tools do: a file is ASCII when it
// starts with "solid ", its first line is shorter than 80 bytes and the
// second line starts with "facet ". Anything else is binary, including
// binary files whose header happens to start with "solid".
func Decode(raw []byte) (*Model, error) {
	if isASCII(raw) {
		return decodeASCII(raw)
	}
	return decodeBinary(raw)
}

func isASCII(raw []byte) bool {
	if !bytes.HasPrefix(raw, []byte("solid ")) {
		return false
	}
	line1, rest, ok := bytes.Cut(raw, []byte("\n"))
	if !ok || len(bytes.TrimRight(line1, "\r")) >= headerSize {
		return false
	}
	line2, _, _ := bytes.Cut(rest, []byte("\n"))
	return bytes.HasPrefix(bytes.TrimSpace(line2), []byte("facet "))
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) readF32() float32 {
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readVec() mathutil.Vec3 {
	x := float64(r.readF32())
	y := float64(r.readF32())
	z := float64(r.readF32())
	return mathutil.Vec3{x, y, z}
}

func (r *reader) readU16() uint16 {
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func decodeBinary(raw []byte) (*Model, error) {
	if len(raw) < headerSize+4 {
		return nil, fmt.Errorf("stl: truncated binary header: %d bytes", len(raw))
	}
	title := raw[:headerSize]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	count := int(binary.LittleEndian.Uint32(raw[headerSize:]))

	r := &reader{data: raw, off: headerSize + 4}
	m := &Model{Title: strings.TrimSpace(string(title))}
	// Cap the allocation by what the file can hold; a bad count is caught below.
	m.Facets = make([]Facet, 0, min(count, (len(raw)-r.off)/recordSize))
	for i := 0; i < count; i++ {
		if r.off+recordSize > len(raw) {
			return nil, fmt.Errorf("stl: after %d facets: %w: truncated record", i, ErrFormat)
		}
		var f Facet
		f.Normal = r.readVec()
		f.V1 = r.readVec()
		f.V2 = r.readVec()
		f.V3 = r.readVec()
		f.Attribute = r.readU16()
		m.Facets = append(m.Facets, f)
	}
	return m, nil
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

// next returns the fields of the next non-blank line, or nil at EOF.
func (l *lineReader) next() []string {
	for l.sc.Scan() {
		l.line++
		if words := strings.Fields(l.sc.Text()); len(words) > 0 {
			return words
		}
	}
	return nil
}

func (l *lineReader) expect(words ...string) error {
	got := l.next()
	if len(got) != len(words) {
		return fmt.Errorf("%w: line %d: want %q", ErrFormat, l.line, strings.Join(words, " "))
	}
	for i := range words {
		if got[i] != words[i] {
			return fmt.Errorf("%w: line %d: want %q", ErrFormat, l.line, strings.Join(words, " "))
		}
	}
	return nil
}

func parseVec(words []string, line int) (mathutil.Vec3, error) {
	var v mathutil.Vec3
	for k := 0; k < 3; k++ {
		f, err := strconv.ParseFloat(words[k], 64)
		if err != nil {
			return v, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		v[k] = f
	}
	return v, nil
}

func decodeASCII(raw []byte) (*Model, error) {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	l := &lineReader{sc: sc}

	first := l.next()
	m := &Model{ASCII: true, Title: strings.Join(first[1:], " ")}
	for {
		words := l.next()
		if words == nil {
			return m, nil
		}
		if words[0] == "endsolid" {
			// another solid may follow
			words = l.next()
			if words == nil || words[0] != "solid" {
				return m, nil
			}
			continue
		}
		f, err := l.facet(words)
		if err != nil {
			return nil, fmt.Errorf("stl: after %d facets: %w", len(m.Facets), err)
		}
		m.Facets = append(m.Facets, f)
	}
}

func (l *lineReader) facet(words []string) (Facet, error) {
	var f Facet
	if len(words) != 5 || words[0] != "facet" || words[1] != "normal" {
		return f, fmt.Errorf("%w: line %d: want \"facet normal\"", ErrFormat, l.line)
	}
	n, err := parseVec(words[2:], l.line)
	if err != nil {
		return f, err
	}
	f.Normal = n

	if err := l.expect("outer", "loop"); err != nil {
		return f, err
	}
	var pts [3]mathutil.Vec3
	for i := range pts {
		words := l.next()
		if len(words) != 4 || words[0] != "vertex" {
			return f, fmt.Errorf("%w: line %d: want \"vertex\"", ErrFormat, l.line)
		}
		if pts[i], err = parseVec(words[1:], l.line); err != nil {
			return f, err
		}
	}
	f.V1, f.V2, f.V3 = pts[0], pts[1], pts[2]

	if err := l.expect("endloop"); err != nil {
		return f, err
	}
	if err := l.expect("endfacet"); err != nil {
		return f, err
	}
	return f, nil
}
