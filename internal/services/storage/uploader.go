package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/phambaophuc/multiscale/pkg/utils"
	"go.uber.org/zap"
)

var ErrNoStore = errors.New("archive storage is not configured")

// SaveArchive uploads a finished archive and returns its URL.
func (s *StorageService) SaveArchive(ctx context.Context, data []byte, filename string) (string, error) {
	if s.store == nil {
		return "", ErrNoStore
	}

	key := utils.GenerateStorageKey(filename)
	url, err := s.store.Upload(ctx, data, key)
	if err != nil {
		return "", err
	}

	s.logger.Info("Archive uploaded",
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return url, nil
}

func errUpload(backend string, err error) error {
	return fmt.Errorf("failed to upload to %s: %w", backend, err)
}
