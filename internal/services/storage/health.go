package storage

import (
	"context"

	"github.com/phambaophuc/multiscale/internal/models"
)

// HealthCheck checks the archive store and Redis cache.
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if s.cache != nil {
		status["redis"] = s.cache.HealthCheck(ctx)
	} else {
		status["redis"] = models.HealthNotConfigured
	}

	if s.store != nil {
		status["storage"] = s.store.HealthCheck(ctx)
	} else {
		status["storage"] = models.HealthNotConfigured
	}

	return status
}
