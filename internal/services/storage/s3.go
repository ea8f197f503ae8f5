package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go"
	"github.com/phambaophuc/multiscale/internal/config"
	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/phambaophuc/multiscale/pkg/utils"
)

// S3Store uploads archives to any S3-compatible bucket and hands out
// presigned download URLs.
type S3Store struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("s3 storage requires AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}

	client, err := minio.New(cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, expiry: cfg.URLExpiry}, nil
}

func (s *S3Store) Upload(ctx context.Context, data []byte, key string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: utils.ZipContentType,
	})
	if err != nil {
		return "", errUpload("s3", err)
	}

	u, err := s.client.PresignedGetObject(s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign archive url: %w", err)
	}
	return u.String(), nil
}

func (s *S3Store) HealthCheck(_ context.Context) string {
	ok, err := s.client.BucketExists(s.bucket)
	if err != nil {
		return fmt.Sprintf("%s: %v", models.HealthUnhealthy, err)
	}
	if !ok {
		return fmt.Sprintf("%s: bucket %q not found", models.HealthUnhealthy, s.bucket)
	}
	return models.HealthHealthy
}
