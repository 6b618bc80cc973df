package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"grocery-route-service/internal/platform/obs"
)

// DefaultPriceTTL bounds how stale a cached shelf price may be.
const DefaultPriceTTL = 4 * time.Hour

// RedisPriceCache stores per-store ingredient prices as plain string keys
// with a TTL. Unavailable items are cached as "+Inf".
type RedisPriceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisPriceCache(client *redis.Client, ttl time.Duration) *RedisPriceCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &RedisPriceCache{client: client, prefix: "prices", ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisPriceCache) key(store, ingredient string) string {
	return r.prefix + ":" + strings.ToLower(store) + ":" + strings.ToLower(strings.TrimSpace(ingredient))
}

func (r *RedisPriceCache) GetMany(ctx context.Context, store string, ingredients []string) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "price.cache.GetMany")(&err)

	if r.client == nil {
		return nil, errors.New("price cache: client is nil")
	}

	uniq := uniqueKeys(ingredients)
	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	keys := make([]string, len(uniq))
	for i, ing := range uniq {
		keys[i] = r.key(store, ing)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get price cache: mget: %w", err)
	}

	found := make(map[string]float64, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		found[uniq[i]] = p
	}

	// Hits are keyed by the caller's spelling so lookups by the same string succeed.
	out := make(map[string]float64, len(found))
	for _, ing := range ingredients {
		if p, ok := found[strings.TrimSpace(ing)]; ok {
			out[ing] = p
		}
	}
	return out, nil
}

func (r *RedisPriceCache) PutMany(ctx context.Context, store string, prices map[string]float64) error {
	if r.client == nil {
		return errors.New("price cache: client is nil")
	}
	if len(prices) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for ing, p := range prices {
		if strings.TrimSpace(ing) == "" {
			return fmt.Errorf("insert price cache: empty ingredient key")
		}
		pipe.Set(ctx, r.key(store, ing), strconv.FormatFloat(p, 'f', -1, 64), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert price cache: exec pipeline: %w", err)
	}
	return nil
}
