package storage

import (
	"context"
	"fmt"

	"github.com/phambaophuc/multiscale/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ArchiveStore persists finished archives and returns a download URL.
type ArchiveStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	HealthCheck(ctx context.Context) string
}

// StorageService bundles the optional archive store and archive cache.
// Either may be nil when not configured.
type StorageService struct {
	store  ArchiveStore
	cache  *RedisCache
	logger *zap.Logger
}

func NewStorageService(cfg *config.Config, logger *zap.Logger) (*StorageService, error) {
	s := &StorageService{logger: logger}

	switch cfg.Storage.Backend {
	case "":
	case "supabase":
		s.store = NewSupabaseStore(cfg.Supabase)
	case "s3":
		store, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, err
		}
		s.store = store
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     10,
			MinIdleConns: 2,
		})
		s.cache = NewRedisCache(client, cfg.Storage.CacheDuration)
	}

	return s, nil
}

// NewStorageServiceWith is used when the store is built elsewhere.
func NewStorageServiceWith(store ArchiveStore, cache *RedisCache, logger *zap.Logger) *StorageService {
	return &StorageService{store: store, cache: cache, logger: logger}
}

// Cache returns the archive cache, or nil when Redis is not configured.
func (s *StorageService) Cache() *RedisCache {
	return s.cache
}

func (s *StorageService) HasStore() bool {
	return s.store != nil
}

func (s *StorageService) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
