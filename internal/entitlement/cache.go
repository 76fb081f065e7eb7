package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	entmetrics "eventdesk/internal/entitlement/metrics"
)

const catalogCacheKey = "entitlement:catalog"

// CachedCatalogStore is a read-through TTL cache over another catalog store.
// The catalog changes only on deploys, so a short TTL removes nearly all
// catalog queries without an invalidation protocol. Cache failures degrade to
// the inner store; a broken Redis never breaks entitlement resolution.
type CachedCatalogStore struct {
	inner   CatalogStore
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *entmetrics.Metrics
}

func NewCachedCatalogStore(inner CatalogStore, client *redis.Client, ttl time.Duration, logger *slog.Logger, metrics *entmetrics.Metrics) *CachedCatalogStore {
	return &CachedCatalogStore{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *CachedCatalogStore) ListCatalog(ctx context.Context) ([]CatalogEntry, error) {
	payload, err := s.client.Get(ctx, catalogCacheKey).Bytes()
	if err == nil {
		var entries []CatalogEntry
		if err := json.Unmarshal(payload, &entries); err == nil {
			s.metrics.IncrementCatalogCache("hit")
			return entries, nil
		}
		// Unreadable payload counts as a miss; overwrite it below.
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	}
	s.metrics.IncrementCatalogCache("miss")

	entries, err := s.inner.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := s.client.Set(ctx, catalogCacheKey, payload, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}
	return entries, nil
}

var _ CatalogStore = (*CachedCatalogStore)(nil)
