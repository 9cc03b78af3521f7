package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/iteka-youth/site-backend/errors"
	"github.com/iteka-youth/site-backend/logger"
	"github.com/iteka-youth/site-backend/pkg/strapi"
	"github.com/redis/go-redis/v9"
)

// collectionSpec describes how a CMS collection is fetched: its default
// populate/sort directives and which optional filters the proxy accepts.
type collectionSpec struct {
	populate      string
	sort          string
	filter        [2]string // fixed equality filter, e.g. featured testimonials
	slugFiltered  bool      // supports detail lookup by slug
	categoryParam bool      // supports ?category= narrowing
}

// collections is the allow-list of CMS content exposed by the proxy,
// mirroring what the site pages consume.
var collections = map[string]collectionSpec{
	"programmes":   {populate: "*", slugFiltered: true},
	"actualites":   {populate: "*", sort: "article_date:desc", slugFiltered: true},
	"galleries":    {populate: "*", sort: "order:asc", categoryParam: true},
	"partners":     {populate: "*", sort: "order:asc"},
	"team-members": {populate: "*", sort: "order:asc"},
	"impact-stats": {sort: "order:asc"},
	"testimonials": {populate: "*", sort: "order:asc", filter: [2]string{"is_featured", "true"}},
	"festival":     {populate: "deep"},
}

// ContentCache is a read-through cache for CMS payloads. Cache failures are
// logged and bypassed; the CMS stays the source of truth.
type ContentCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ContentService serves read-only CMS content to the frontend, optionally
// caching responses to spare the CMS from per-page-view fetches.
type ContentService struct {
	client strapi.ClientInterface
	cache  ContentCache // nil disables caching
	ttl    time.Duration
}

func NewContentService(client strapi.ClientInterface, cache ContentCache, ttl time.Duration) *ContentService {
	return &ContentService{
		client: client,
		cache:  cache,
		ttl:    ttl,
	}
}

// GetCollection returns the raw list payload for an allow-listed collection.
// category narrows gallery-style collections; it is ignored elsewhere.
func (s *ContentService) GetCollection(ctx context.Context, name, category string) (json.RawMessage, error) {
	spec, ok := collections[name]
	if !ok {
		return nil, apperrors.NotFound("Collection", name)
	}

	query := strapi.Query{Populate: spec.populate, Sort: spec.sort}
	if spec.filter[0] != "" {
		query = query.WithFilter(spec.filter[0], spec.filter[1])
	}
	cacheKey := fmt.Sprintf("content:%s", name)
	if spec.categoryParam && category != "" {
		query = query.WithFilter("category", category)
		cacheKey = fmt.Sprintf("content:%s:%s", name, category)
	}

	return s.fetch(ctx, cacheKey, name, query)
}

// GetBySlug returns the first entry matching the slug, for collections that
// publish detail pages.
func (s *ContentService) GetBySlug(ctx context.Context, name, slug string) (json.RawMessage, error) {
	spec, ok := collections[name]
	if !ok || !spec.slugFiltered {
		return nil, apperrors.NotFound("Collection", name)
	}

	query := strapi.Query{Populate: spec.populate}.WithFilter("slug", slug)
	cacheKey := fmt.Sprintf("content:%s:slug:%s", name, slug)

	data, err := s.fetch(ctx, cacheKey, name, query)
	if err != nil {
		return nil, err
	}

	entry, err := strapi.First(data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.PersistenceError, "Unexpected content payload")
	}
	if entry == nil {
		return nil, apperrors.NotFound("Entry", slug)
	}
	return entry, nil
}

func (s *ContentService) fetch(ctx context.Context, cacheKey, collection string, query strapi.Query) (json.RawMessage, error) {
	log := logger.GetLogger()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			return json.RawMessage(cached), nil
		} else if err != nil && err != redis.Nil {
			log.Warnw("Content cache read failed", "key", cacheKey, "error", err)
		}
	}

	data, err := s.client.List(ctx, collection, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.PersistenceError, "Failed to fetch content")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), s.ttl); err != nil {
			log.Warnw("Content cache write failed", "key", cacheKey, "error", err)
		}
	}

	return data, nil
}

// RedisContentCache stores CMS payloads in Redis with a TTL.
type RedisContentCache struct {
	client *redis.Client
}

var _ ContentCache = (*RedisContentCache)(nil)

func NewRedisContentCache(client *redis.Client) *RedisContentCache {
	return &RedisContentCache{client: client}
}

func (c *RedisContentCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *RedisContentCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
