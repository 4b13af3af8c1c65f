package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "scribe:summary:"

// RedisCache keeps document summaries in Redis so several machines can share
// them. Entries expire through Redis TTLs.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// parseRedisURL accepts redis://, rediss:// or a bare host:port.
func parseRedisURL(connectionString string) (*redis.Options, error) {
	if !strings.HasPrefix(connectionString, "redis://") && !strings.HasPrefix(connectionString, "rediss://") {
		return &redis.Options{Addr: connectionString}, nil
	}

	parsedURL, err := url.Parse(connectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	opts := &redis.Options{Addr: parsedURL.Host}
	if parsedURL.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if parsedURL.User != nil {
		opts.Username = parsedURL.User.Username()
		if password, ok := parsedURL.User.Password(); ok {
			opts.Password = password
		}
	}
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		db, err := strconv.Atoi(strings.TrimPrefix(parsedURL.Path, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid Redis database %q", parsedURL.Path)
		}
		opts.DB = db
	}
	return opts, nil
}

func NewRedisCache(ctx context.Context, connectionString string, ttl time.Duration) (*RedisCache, error) {
	opts, err := parseRedisURL(connectionString)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, prefix: defaultPrefix, ttl: ttl}, nil
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key, summary string) error {
	return c.client.Set(ctx, c.key(key), summary, c.ttl).Err()
}

// scan visits every key under the cache prefix.
func (c *RedisCache) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *RedisCache) Len(ctx context.Context) (int, error) {
	n := 0
	err := c.scan(ctx, func(keys []string) error {
		n += len(keys)
		return nil
	})
	return n, err
}

func (c *RedisCache) Clear(ctx context.Context) error {
	return c.scan(ctx, func(keys []string) error {
		return c.client.Del(ctx, keys...).Err()
	})
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
