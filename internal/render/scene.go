package render

import (
	"image"

	"efield/internal/mathutil"
	"efield/internal/surface"
)

// Scene is what gets drawn: the two charge clouds and, optionally, the mesh
// conductors under them.
type Scene struct {
	Positives []mathutil.Vec3
	Negatives []mathutil.Vec3
	Meshes    []*surface.Mesh
}

type Options struct {
	Size        int
	Supersample int
	Yaw         float64 // degrees about world Z
	Pitch       float64 // degrees of elevation
	DotRadius   float64 // pixels at the final size
}

var (
	positiveColor = [3]uint8{220, 60, 50}
	negativeColor = [3]uint8{50, 100, 230}
	meshColor     = [3]uint8{160, 160, 170}
)

// Render draws s with a camera fitted to every particle and mesh vertex.
func Render(s Scene, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	size := opts.Size * ss

	points := make([]mathutil.Vec3, 0, len(s.Positives)+len(s.Negatives))
	points = append(points, s.Positives...)
	points = append(points, s.Negatives...)
	for _, m := range s.Meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			t := m.Triangle(i)
			points = append(points, t.V1, t.V2, t.V3)
		}
	}
	cam := NewCamera(points, opts.Yaw, opts.Pitch, size, 16*ss)

	fb := NewFrameBuffer(size, size)
	lc := DefaultLightConfig()
	for _, m := range s.Meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			t := m.Triangle(i)
			n := cam.R.MulVec3(t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1))).Normalize()
			FillTriangle(fb, cam.Project(t.V1), cam.Project(t.V2), cam.Project(t.V3), n,
				meshColor[0], meshColor[1], meshColor[2], &lc)
		}
	}

	radius := opts.DotRadius * float64(ss)
	for _, p := range s.Positives {
		q := cam.Project(p)
		Disc(fb, q[0], q[1], q[2], radius, positiveColor[0], positiveColor[1], positiveColor[2])
	}
	for _, p := range s.Negatives {
		q := cam.Project(p)
		Disc(fb, q[0], q[1], q[2], radius, negativeColor[0], negativeColor[1], negativeColor[2])
	}

	img := fb.Image()
	if ss > 1 {
		img = Downsample(img, opts.Size)
	}
	return img
}
