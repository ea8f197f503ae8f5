package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/phambaophuc/multiscale/internal/models"
)

// ValidateSource checks the encoded size and the declared pixel count of a
// source image without decoding its pixel data.
func (r *Rasterizer) ValidateSource(src models.SourceImage) error {
	if size := int64(len(src.Data)); r.maxFileSize > 0 && size > r.maxFileSize {
		return fmt.Errorf("%w: file size %d exceeds maximum allowed size %d", ErrSourceTooLarge, size, r.maxFileSize)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return fmt.Errorf("invalid image format: %w", err)
	}

	if pixels := cfg.Width * cfg.Height; r.maxPixels > 0 && pixels > r.maxPixels {
		return fmt.Errorf("%w: %s is %dx%d", ErrSourceTooLarge, format, cfg.Width, cfg.Height)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("invalid image format: %s has zero dimension", format)
	}

	return nil
}
