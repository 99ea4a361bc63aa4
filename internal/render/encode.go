package render

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

type Format int

const (
	WebP Format = iota
	TGA
)

// FormatFor picks the encoder from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebP, nil
	case ".tga":
		return TGA, nil
	}
	return 0, fmt.Errorf("render: unsupported image type %q", filepath.Ext(path))
}

func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	default:
		err = fmt.Errorf("unknown format %d", f)
	}
	if err != nil {
		return fmt.Errorf("render: encode: %w", err)
	}
	return nil
}
