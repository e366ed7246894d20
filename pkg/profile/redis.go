package profile

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces profile keys in a shared Redis instance.
const redisKeyPrefix = "flagkit:profile:"

// ErrRedisUnavailable indicates the Redis command itself failed.
var ErrRedisUnavailable = errors.New("profile redis store unavailable")

// RedisStore is a Service implementation backed by Redis, for hosts that
// need profiles shared across processes.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL bounds how long a stored profile survives without being saved
// again. Zero keeps profiles forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore creates a Redis-backed profile store around an existing
// client. The store does not own the client and never closes it.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup implements Service.
func (s *RedisStore) Lookup(ctx context.Context, userID string) (Profile, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, errors.Join(ErrRedisUnavailable, err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt payload is indistinguishable from no profile for the
		// decision pipeline; report not-found so the user is re-bucketed.
		return Profile{}, errors.Join(ErrNotFound, err)
	}
	return p, nil
}

// Save implements Service.
func (s *RedisStore) Save(ctx context.Context, p Profile) error {
	if p.UserID == "" {
		return ErrInvalidProfile
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Join(ErrInvalidProfile, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+p.UserID, raw, s.ttl).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}
