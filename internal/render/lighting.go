package render

import (
	"math"

	"efield/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters for flat-shaded faces.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, -110, -400}.Normalize()

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.35,
		Hemi:     0.30,
		Direct:   0.90,
		Rim:      0.30,
		SpecInt:  0.25,
		SpecPow:  12.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the lighting scalar for a unit face normal. Faces are lit
// from both sides.
func (lc *LightConfig) Shade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))
	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5

	ndh := math.Abs(normal.Dot(lc.HalfMain))
	specular := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + specular
}

// Apply shades an sRGB color: decode, scale, tone map, encode.
func (lc *LightConfig) Apply(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	f := shade * lc.Exposure
	out := func(c uint8) uint8 {
		return clamp255(math.Pow(acesTonemap(srgbToLinear[c]*f), lc.InvGamma) * 255)
	}
	return out(r), out(g), out(b)
}

var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// acesTonemap is the ACES filmic curve on a linear value.
func acesTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
