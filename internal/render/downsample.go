package render

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks a supersampled frame to size×size. Filtering runs on
// premultiplied colour so transparent background does not darken dot rims.
func Downsample(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}

	// draw converts NRGBA to premultiplied RGBA on copy
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	small := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(small, small.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(small.Bounds())
	for i := 0; i < len(small.Pix); i += 4 {
		a := small.Pix[i+3]
		out.Pix[i+3] = a
		if a == 0 {
			continue
		}
		k := 255 / float64(a)
		for c := range 3 {
			out.Pix[i+c] = clamp255(float64(small.Pix[i+c]) * k)
		}
	}
	return out
}
