// Package kv provides the shared key-value store used for quota counters and
// the result cache, backed by Redis via rueidis.
package kv

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/rueidis"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("kv: key not found")

// KV is the key-value contract consumed by the quota guard and result cache.
type KV interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL stores a value with an expiration.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// CheckAndIncr atomically increments key only while its current value is
	// below limit, refreshing the TTL on success. It returns the new value and
	// true, or the current value and false when the limit is reached. The
	// check and increment happen in a single server-side round trip.
	CheckAndIncr(ctx context.Context, key string, limit int64, ttl time.Duration) (int64, bool, error)

	Close()
}

// checkAndIncrScript runs the quota check-and-increment atomically on the
// server so concurrent callers cannot both pass the limit check.
var checkAndIncrScript = rueidis.NewLuaScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if current >= limit then
	return -1
end
local value = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return value
`)

// Config holds connection parameters for the Redis store.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store implements KV via rueidis.
type Store struct {
	client rueidis.Client
}

var _ KV = (*Store)(nil)

// NewStore creates a Redis-backed KV store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{cfg.Addr},
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}

	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return errors.Wrap(err, "ping")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.client.B().Get().Key(key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "kv get")
	}
	return data, nil
}

func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return errors.Wrap(err, "kv set")
	}
	return nil
}

func (s *Store) CheckAndIncr(ctx context.Context, key string, limit int64, ttl time.Duration) (int64, bool, error) {
	seconds := strconv.FormatInt(int64(ttl.Seconds()), 10)
	result := checkAndIncrScript.Exec(ctx, s.client, []string{key}, []string{strconv.FormatInt(limit, 10), seconds})
	value, err := result.AsInt64()
	if err != nil {
		return 0, false, errors.Wrap(err, "kv check-and-incr")
	}
	if value < 0 {
		return limit, false, nil
	}
	return value, true, nil
}

func (s *Store) Close() {
	s.client.Close()
}
