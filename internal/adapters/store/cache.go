package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Meetcast/internal/app"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var ErrCacheMiss = errors.New("cache miss")

// TokenCache holds host tokens of existing meetings.
type TokenCache interface {
	Get(ctx context.Context, code domain.MeetingCode) (string, error)
	Set(ctx context.Context, code domain.MeetingCode, token string, ttl time.Duration) error
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type RedisTokenCache struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenCache(cfg RedisConfig, prefix string) (*RedisTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisTokenCache{client: client, prefix: prefix}, nil
}

func (c *RedisTokenCache) key(code domain.MeetingCode) string {
	return fmt.Sprintf("%s:host_token:%s", c.prefix, code)
}

func (c *RedisTokenCache) Get(ctx context.Context, code domain.MeetingCode) (string, error) {
	v, err := c.client.Get(ctx, c.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return v, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, code domain.MeetingCode, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(code), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}

// CachedMeetingStore is a read-through cache over a MeetingStore. Only
// existing meetings are cached, so a meeting created after a miss is seen
// on the next lookup. Cache failures degrade to the backing store.
type CachedMeetingStore struct {
	store app.MeetingStore
	cache TokenCache
	ttl   time.Duration
	sf    singleflight.Group
}

func NewCachedMeetingStore(store app.MeetingStore, cache TokenCache, ttl time.Duration) *CachedMeetingStore {
	return &CachedMeetingStore{store: store, cache: cache, ttl: ttl}
}

type lookupResult struct {
	token  string
	exists bool
}

func (s *CachedMeetingStore) LookupHostToken(ctx context.Context, code domain.MeetingCode) (string, bool, error) {
	token, err := s.cache.Get(ctx, code)
	if err == nil {
		return token, true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Warn().Err(err).Str("module", "store").Str("room", string(code)).Msg("token cache get")
	}

	v, err, _ := s.sf.Do(string(code), func() (any, error) {
		token, exists, err := s.store.LookupHostToken(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := s.cache.Set(ctx, code, token, s.ttl); err != nil {
				log.Warn().Err(err).Str("module", "store").Str("room", string(code)).Msg("token cache set")
			}
		}
		return lookupResult{token: token, exists: exists}, nil
	})
	if err != nil {
		return "", false, err
	}
	res := v.(lookupResult)
	return res.token, res.exists, nil
}
