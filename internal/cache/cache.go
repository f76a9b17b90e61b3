package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yatube/yatube-services/internal/appconfig"
)

const keyPrefix = "yatube:posts_count:"

// PostCounts caches the number of posts per author. A nil *PostCounts is a
// valid, always-missing cache so callers need no special casing when Redis
// is not configured. Redis failures are logged and treated as misses.
type PostCounts struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCounts connects to Redis. It returns nil when no address is configured.
func NewPostCounts(ctx context.Context, cfg appconfig.RedisConfig) (*PostCounts, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.Addr, err)
	}

	return &PostCounts{client: client, ttl: cfg.TTL}, nil
}

func key(authorID int64) string {
	return keyPrefix + strconv.FormatInt(authorID, 10)
}

// Get returns the cached count for an author.
func (c *PostCounts) Get(ctx context.Context, authorID int64) (int, bool) {
	if c == nil {
		return 0, false
	}

	n, err := c.client.Get(ctx, key(authorID)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("author_id", authorID).Msg("post count cache read failed")
		}
		return 0, false
	}
	return n, true
}

// Set stores the count for an author.
func (c *PostCounts) Set(ctx context.Context, authorID int64, count int) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, key(authorID), count, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("author_id", authorID).Msg("post count cache write failed")
	}
}

// Invalidate drops the cached count for an author.
func (c *PostCounts) Invalidate(ctx context.Context, authorID int64) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, key(authorID)).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("author_id", authorID).Msg("post count cache invalidation failed")
	}
}

func (c *PostCounts) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
