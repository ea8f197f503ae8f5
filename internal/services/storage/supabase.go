package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phambaophuc/multiscale/internal/config"
	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/phambaophuc/multiscale/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
)

type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseStore(cfg config.SupabaseConfig) *SupabaseStore {
	return &SupabaseStore{
		client: storage_go.NewClient(cfg.URL+"/storage/v1", cfg.KEY, nil),
		bucket: cfg.BUCKET,
	}
}

func (s *SupabaseStore) Upload(_ context.Context, data []byte, key string) (string, error) {
	contentType := utils.ZipContentType
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", errUpload("supabase", err)
	}

	publicURL := s.client.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

func (s *SupabaseStore) HealthCheck(_ context.Context) string {
	if _, err := s.client.ListFiles(s.bucket, "", storage_go.FileSearchOptions{}); err != nil {
		return fmt.Sprintf("%s: %v", models.HealthUnhealthy, err)
	}
	return models.HealthHealthy
}
