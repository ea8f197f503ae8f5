package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/multiscale/internal/models"

	_ "golang.org/x/image/webp"
)

type RasterizerOptions struct {
	MaxFileSize     int64
	MaxSourcePixels int
	Timeout         time.Duration
	Compression     string // none, fast, default, best
}

// Rasterizer decodes a source image and redraws it at an exact pixel size.
type Rasterizer struct {
	maxFileSize int64
	maxPixels   int
	timeout     time.Duration
	compression png.CompressionLevel
}

func NewRasterizer(opts RasterizerOptions) *Rasterizer {
	return &Rasterizer{
		maxFileSize: opts.MaxFileSize,
		maxPixels:   opts.MaxSourcePixels,
		timeout:     opts.Timeout,
		compression: compressionLevel(opts.Compression),
	}
}

// Rasterize stretches src to exactly size and returns it PNG-encoded.
// Every failure is returned as a *DecodeError naming the source file.
// Rasterize does not return before its background work has stopped, even
// when the timeout fires.
func (r *Rasterizer) Rasterize(ctx context.Context, src models.SourceImage, size models.Size) ([]byte, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, &DecodeError{Filename: src.Filename, Err: fmt.Errorf("invalid target size %dx%d", size.Width, size.Height)}
	}

	if err := ctx.Err(); err != nil {
		return nil, &DecodeError{Filename: src.Filename, Err: err}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type outcome struct {
		data []byte
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		data, err := r.rasterize(src, size)
		done <- outcome{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrImageTimeout
		}
		// Decoding cannot be interrupted. Waiting keeps the caller's worker
		// slot busy so abandoned work still counts against the pool.
		<-done
		return nil, &DecodeError{Filename: src.Filename, Err: err}
	case out := <-done:
		if out.err != nil {
			return nil, &DecodeError{Filename: src.Filename, Err: out.err}
		}
		return out.data, nil
	}
}

func (r *Rasterizer) rasterize(src models.SourceImage, size models.Size) ([]byte, error) {
	if err := r.ValidateSource(src); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	// Both axes set: the source is stretched, never letterboxed.
	resized := imaging.Resize(img, size.Width, size.Height, imaging.Lanczos)

	buffer := &bytes.Buffer{}
	if err := r.encodeImage(buffer, resized); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buffer.Bytes(), nil
}
