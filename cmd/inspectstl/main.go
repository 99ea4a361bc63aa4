// Command inspectstl prints the facet count, bounding box and area of STL
// meshes, and how the area splits by facing direction.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"efield/internal/mathutil"
	"efield/internal/stl"
)

func main() {
	scale := flag.Float64("scale", 1, "factor applied to coordinates")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: inspectstl [-scale f] file.stl...")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		m, err := stl.Parse(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		inspect(os.Stdout, path, m, *scale)
	}
	if failed {
		os.Exit(1)
	}
}

var directions = []string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func inspect(w io.Writer, path string, m *stl.Model, scale float64) {
	format := "binary"
	if m.ASCII {
		format = "ascii"
	}
	fmt.Fprintf(w, "%s: %s, %d facets", path, format, len(m.Facets))
	if m.Title != "" {
		fmt.Fprintf(w, ", title %q", m.Title)
	}
	fmt.Fprintln(w)
	if len(m.Facets) == 0 {
		return
	}

	lo, hi := m.Bounds()
	lo, hi = lo.Scale(scale), hi.Scale(scale)
	size := hi.Sub(lo)
	fmt.Fprintf(w, "  BBox: X[%.4g, %.4g] Y[%.4g, %.4g] Z[%.4g, %.4g]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Fprintf(w, "  Size: %.4g x %.4g x %.4g\n", size[0], size[1], size[2])

	var total float64
	degenerate := 0
	byDir := map[string]float64{}
	for _, f := range m.Facets {
		n := f.V2.Sub(f.V1).Cross(f.V3.Sub(f.V1)).Scale(scale * scale)
		area := 0.5 * n.Len()
		if area == 0 {
			degenerate++
			continue
		}
		total += area
		byDir[facing(n)] += area
	}
	fmt.Fprintf(w, "  Area: %.6g", total)
	if degenerate > 0 {
		fmt.Fprintf(w, " (%d degenerate facets)", degenerate)
	}
	fmt.Fprintln(w)
	for _, d := range directions {
		if a := byDir[d]; a > 0 {
			fmt.Fprintf(w, "    %s: %.6g (%.1f%%)\n", d, a, 100*a/total)
		}
	}
}

// facing names the dominant axis of a face normal.
func facing(n mathutil.Vec3) string {
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	switch {
	case ax >= ay && ax >= az:
		if n[0] > 0 {
			return "+X"
		}
		return "-X"
	case ay >= az:
		if n[1] > 0 {
			return "+Y"
		}
		return "-Y"
	default:
		if n[2] > 0 {
			return "+Z"
		}
		return "-Z"
	}
}
