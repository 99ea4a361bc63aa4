package render

import (
	"math"

	"efield/internal/mathutil"
)

// FillTriangle rasterizes one flat-shaded triangle given in screen space
// (x, y in pixels, z as depth). The shade comes from the world-space normal.
func FillTriangle(fb *FrameBuffer, a, b, c mathutil.Vec3, normal mathutil.Vec3, r, g, bl uint8, lc *LightConfig) {
	x0, y0, z0 := a[0], a[1], a[2]
	x1, y1, z1 := b[0], b[1], b[2]
	x2, y2, z2 := c[0], c[1], c[2]

	cr, cg, cb := lc.Apply(r, g, bl, lc.Shade(normal))

	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			i := rowOff + sx
			if z <= fb.ZBuf[i] {
				continue
			}
			fb.set(i, z, cr, cg, cb)
		}
	}
}

// Disc draws a z-buffered dot of the given pixel radius, darkening toward the
// rim so that overlapping dots stay distinguishable.
func Disc(fb *FrameBuffer, x, y, z, radius float64, r, g, b uint8) {
	minX := max(int(math.Floor(x-radius)), 0)
	maxX := min(int(math.Ceil(x+radius)), fb.Width-1)
	minY := max(int(math.Floor(y-radius)), 0)
	maxY := min(int(math.Ceil(y+radius)), fb.Height-1)
	r2 := radius * radius

	for sy := minY; sy <= maxY; sy++ {
		dy := float64(sy) - y
		for sx := minX; sx <= maxX; sx++ {
			dx := float64(sx) - x
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			i := sy*fb.Width + sx
			// dots sit in front of any surface at the same depth
			depth := z + 1e-9
			if depth <= fb.ZBuf[i] {
				continue
			}
			k := 1 - 0.35*d2/r2
			fb.set(i, depth, clamp255(float64(r)*k), clamp255(float64(g)*k), clamp255(float64(b)*k))
		}
	}
}
