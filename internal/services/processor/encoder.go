package processor

import (
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// encodeImage writes img as PNG. Output entries are always lossless.
func (r *Rasterizer) encodeImage(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(r.compression))
}

func compressionLevel(name string) png.CompressionLevel {
	switch name {
	case "none":
		return png.NoCompression
	case "fast":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
