package enrichment

import (
	"context"
	"log/slog"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
)

// CachedEnricher decorates an Enricher with a lookup-token keyed cache.
// Only successful lookups are stored. Cache failures are logged and bypassed.
type CachedEnricher struct {
	next   ports.Enricher
	cache  ports.EnrichmentCache
	logger *slog.Logger
}

// NewCachedEnricher wraps next with cache.
func NewCachedEnricher(next ports.Enricher, cache ports.EnrichmentCache, logger *slog.Logger) *CachedEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedEnricher{next: next, cache: cache, logger: logger.With("component", "enrichment-cache")}
}

// Enrich serves from cache when possible and fills it on success.
func (c *CachedEnricher) Enrich(ctx context.Context, medicineName string) (*entities.Enrichment, error) {
	key := LookupToken(medicineName)
	if key == "" {
		return c.next.Enrich(ctx, medicineName)
	}

	cached, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache read failed", "key", key, "error", err)
	case ok:
		return cached, nil
	}

	result, err := c.next.Enrich(ctx, medicineName)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, result); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return result, nil
}
