package site

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/bilgisen/visacms/internal/cache"
	"github.com/bilgisen/visacms/internal/models"
)

// Source provides the live records
type Source interface {
	ListNews(ctx context.Context) ([]models.News, error)
	ListVisas(ctx context.Context) ([]models.Visa, error)
}

// CachedSource reads through a cache in front of another Source. Cache
// failures are logged and the request falls through to the source.
type CachedSource struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedSource(source Source, c cache.Cache, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  c,
		ttl:    ttl,
		log:    log,
	}
}

func (s *CachedSource) ListNews(ctx context.Context) ([]models.News, error) {
	return readThrough(ctx, s, cache.NewsListKey, s.source.ListNews)
}

func (s *CachedSource) ListVisas(ctx context.Context) ([]models.Visa, error) {
	return readThrough(ctx, s, cache.VisaListKey, s.source.ListVisas)
}

// Invalidate drops the cached collections so the next read hits the source
func (s *CachedSource) Invalidate(ctx context.Context, keys ...string) error {
	return s.cache.Delete(ctx, keys...)
}

func readThrough[T any](ctx context.Context, s *CachedSource, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if ok {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		s.log.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return items, nil
}
