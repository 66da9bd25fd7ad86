// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"courtier_backend/internal/feature/lead/domain"
	"courtier_backend/internal/feature/lead/domain/entity"
	"courtier_backend/internal/feature/lead/usecase"
)

// CachingLeadRepository decorates a LeadRepository with a Redis read-through cache
// for single-lead lookups and list pages. Every write invalidates the affected keys.
// Cached leads carry their owner without credential fields, which are never serialized.
type CachingLeadRepository struct {
	inner     usecase.LeadRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.LeadRepository = (*CachingLeadRepository)(nil)

type cachedPage struct {
	Leads []entity.Lead `json:"leads"`
	Total int64         `json:"total"`
}

// NewCachingLeadRepository decorates a LeadRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "leads".
func NewCachingLeadRepository(rdb *redis.Client, ttl time.Duration, inner usecase.LeadRepository, namespace string) *CachingLeadRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "leads"
	}
	return &CachingLeadRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the lead and drops cached list pages.
func (c *CachingLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	if err := c.inner.Create(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, 0)
	return nil
}

// FindByID checks the cache first, then falls back to the database.
func (c *CachingLeadRepository) FindByID(ctx context.Context, id uint) (*entity.Lead, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.leadKey(id)
	var cached entity.Lead
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	l, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, l)
	return l, nil
}

// List checks the cache for the page first, then falls back to the database.
func (c *CachingLeadRepository) List(ctx context.Context, offset, limit int) ([]entity.Lead, int64, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, offset, limit)
	}

	key := c.listKey(offset, limit)
	var cached cachedPage
	if c.get(ctx, key, &cached) {
		return cached.Leads, cached.Total, nil
	}

	leads, total, err := c.inner.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, cachedPage{Leads: leads, Total: total})
	return leads, total, nil
}

// Save updates the lead and invalidates its entry and all list pages.
// A lead that no longer exists is dropped from the cache as well.
func (c *CachingLeadRepository) Save(ctx context.Context, l *entity.Lead) error {
	if err := c.inner.Save(ctx, l); err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			c.invalidate(ctx, l.ID)
		}
		return err
	}
	c.invalidate(ctx, l.ID)
	return nil
}

// Delete removes the lead and invalidates its entry and all list pages.
func (c *CachingLeadRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// InvalidateAll drops every cached lead and list page.
// Cached leads embed their owner, so it runs after an owner is renamed or deleted.
func (c *CachingLeadRepository) InvalidateAll(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("lead cache purge failed", "error", err)
	}
}

// get reads key into dst. Corrupted entries are deleted.
func (c *CachingLeadRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key (best effort).
func (c *CachingLeadRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate drops the entry for id (when non-zero) and every cached list page.
// Failures are logged only; stale entries expire with the TTL.
func (c *CachingLeadRepository) invalidate(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	if id != 0 {
		if err := c.rdb.Del(ctx, c.leadKey(id)).Err(); err != nil {
			slog.Warn("lead cache invalidation failed", "lead_id", id, "error", err)
		}
	}
	if err := c.deleteByPattern(ctx, c.listPrefix()+"*"); err != nil {
		slog.Warn("lead list cache invalidation failed", "error", err)
	}
}

func (c *CachingLeadRepository) leadKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

func (c *CachingLeadRepository) listPrefix() string {
	return c.namespace + ":list:"
}

func (c *CachingLeadRepository) listKey(offset, limit int) string {
	return fmt.Sprintf("%s%d:%d", c.listPrefix(), offset, limit)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingLeadRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
