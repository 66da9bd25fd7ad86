package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	leadadapters "courtier_backend/internal/feature/lead/adapters"
	"courtier_backend/internal/feature/lead/usecase"
	userusecase "courtier_backend/internal/feature/user/usecase"
	"courtier_backend/internal/platform/cache"
)

// NewLeadRepository creates a LeadRepository implementation.
// If Redis is available, the gorm repository is wrapped with the read-through cache
// and the cache is also returned so user changes can drop cached leads.
// Otherwise, the gorm repository is returned as is with a nil cache.
func NewLeadRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) (usecase.LeadRepository, userusecase.LeadCache) {
	repo := leadadapters.NewLeadRepository(db)
	if rdb == nil {
		return repo, nil
	}
	cached := cache.NewCachingLeadRepository(rdb, ttl, repo, "leads")
	return cached, cached
}
