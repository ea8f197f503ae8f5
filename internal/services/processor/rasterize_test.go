package processor

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterize_ExactSizeRegardlessOfAspect(t *testing.T) {
	r := NewRasterizer(RasterizerOptions{})
	target := models.Size{Width: 64, Height: 120}

	sources := []models.SourceImage{
		pngSource(t, "square.png", 50, 50),
		pngSource(t, "wide.png", 200, 20),
		pngSource(t, "tall.png", 10, 300),
		pngSource(t, "exact.png", 64, 120),
		jpegSource(t, "photo.jpg", 90, 60),
	}

	for _, src := range sources {
		t.Run(src.Filename, func(t *testing.T) {
			out, err := r.Rasterize(context.Background(), src, target)
			require.NoError(t, err)
			assert.Equal(t, target, pngSize(t, out))
		})
	}
}

func TestRasterize_Deterministic(t *testing.T) {
	r := NewRasterizer(RasterizerOptions{})
	src := pngSource(t, "a.png", 40, 30)
	size := models.Size{Width: 80, Height: 90}

	first, err := r.Rasterize(context.Background(), src, size)
	require.NoError(t, err)
	second, err := r.Rasterize(context.Background(), src, size)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestRasterize_DecodeError(t *testing.T) {
	r := NewRasterizer(RasterizerOptions{})

	_, err := r.Rasterize(context.Background(), brokenSource("broken.png"), models.Size{Width: 10, Height: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "broken.png", decodeErr.Filename)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestRasterize_SourceLimits(t *testing.T) {
	src := pngSource(t, "big.png", 100, 100)

	r := NewRasterizer(RasterizerOptions{MaxFileSize: 10})
	_, err := r.Rasterize(context.Background(), src, models.Size{Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrSourceTooLarge)
	assert.ErrorIs(t, err, ErrDecode)

	r = NewRasterizer(RasterizerOptions{MaxSourcePixels: 5000})
	_, err = r.Rasterize(context.Background(), src, models.Size{Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrSourceTooLarge)
}

func TestRasterize_InvalidTarget(t *testing.T) {
	r := NewRasterizer(RasterizerOptions{})
	_, err := r.Rasterize(context.Background(), pngSource(t, "a.png", 4, 4), models.Size{Width: 0, Height: 10})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestRasterize_Timeout(t *testing.T) {
	r := NewRasterizer(RasterizerOptions{Timeout: time.Nanosecond})
	src := pngSource(t, "slow.png", 800, 800)

	_, err := r.Rasterize(context.Background(), src, models.Size{Width: 2400, Height: 2400})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImageTimeout)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "slow.png", decodeErr.Filename)
}

func TestValidateSource(t *testing.T) {
	r := NewRasterizer(RasterizerOptions{MaxFileSize: 1 << 20, MaxSourcePixels: 1 << 20})

	require.NoError(t, r.ValidateSource(pngSource(t, "ok.png", 20, 20)))
	require.Error(t, r.ValidateSource(brokenSource("nope.png")))
}

func TestRasterize_Compression(t *testing.T) {
	src := pngSource(t, "a.png", 40, 40)
	size := models.Size{Width: 200, Height: 200}

	stored, err := NewRasterizer(RasterizerOptions{Compression: "none"}).Rasterize(context.Background(), src, size)
	require.NoError(t, err)
	best, err := NewRasterizer(RasterizerOptions{Compression: "best"}).Rasterize(context.Background(), src, size)
	require.NoError(t, err)

	assert.Greater(t, len(stored), len(best))
	assert.Equal(t, size, pngSize(t, stored))
	assert.Equal(t, size, pngSize(t, best))
}

func TestCompressionLevel(t *testing.T) {
	assert.Equal(t, png.NoCompression, compressionLevel("none"))
	assert.Equal(t, png.BestSpeed, compressionLevel("fast"))
	assert.Equal(t, png.BestCompression, compressionLevel("best"))
	assert.Equal(t, png.DefaultCompression, compressionLevel("default"))
	assert.Equal(t, png.DefaultCompression, compressionLevel("bogus"))
}
