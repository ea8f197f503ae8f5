package processor

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func pngSource(t *testing.T, name string, w, h int) models.SourceImage {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return models.SourceImage{Filename: name, Data: buf.Bytes()}
}

func jpegSource(t *testing.T, name string, w, h int) models.SourceImage {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 90}))
	return models.SourceImage{Filename: name, Data: buf.Bytes()}
}

func brokenSource(name string) models.SourceImage {
	return models.SourceImage{Filename: name, Data: []byte("definitely not an image")}
}

type zipEntry struct {
	name string
	data []byte
}

// readArchive returns the entries of a zip archive in stored order.
func readArchive(t *testing.T, archive []byte) []zipEntry {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	entries := make([]zipEntry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries = append(entries, zipEntry{name: f.Name, data: data})
	}
	return entries
}

func entryNames(entries []zipEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

func pngSize(t *testing.T, data []byte) models.Size {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return models.Size{Width: cfg.Width, Height: cfg.Height}
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *recordingSink) Emit(_ context.Context, event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.events))
	for i, e := range s.events {
		actions[i] = e.Action
	}
	return actions
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*models.BatchResult
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*models.BatchResult)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*models.BatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if r, ok := c.entries[key]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (c *memoryCache) Set(_ context.Context, key string, result *models.BatchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *result
	c.entries[key] = &clone
	return nil
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
