package redis

import (
	"context"
	"errors"
	"fmt"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/ports/repository"
	"tryon-studio/internal/infra/metrics"

	"github.com/go-redis/redis/v8"
)

var _ repository.ResultCache = (*ResultCache)(nil)

// ResultCache stores generated result URLs in one hash per portrait
// identity, so a portrait switch can drop the whole partition in a
// single DEL and concurrent Puts for different items never clobber
// each other.
type ResultCache struct {
	client *redClient
}

func NewResultCache(client *redClient) repository.ResultCache {
	return &ResultCache{client: client}
}

func (r *ResultCache) key(portraitID string) string {
	return fmt.Sprintf("tryon:results:%s", portraitID)
}

func (r *ResultCache) Get(ctx context.Context, portraitID, itemID string) (string, error) {
	url, err := r.client.HGet(ctx, r.key(portraitID), itemID)
	if errors.Is(err, redis.Nil) {
		metrics.IncCacheRequest("results", "miss")
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	metrics.IncCacheRequest("results", "hit")
	return url, nil
}

func (r *ResultCache) Put(ctx context.Context, portraitID, itemID, url string) error {
	return r.client.HSet(ctx, r.key(portraitID), itemID, url)
}

func (r *ResultCache) All(ctx context.Context, portraitID string) (map[string]string, error) {
	return r.client.HGetAll(ctx, r.key(portraitID))
}

func (r *ResultCache) Clear(ctx context.Context, portraitID string) error {
	return r.client.Del(ctx, r.key(portraitID))
}
