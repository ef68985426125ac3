package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "ratelimit"

// consumeScript mirrors bucketState.refill so every operator API
// instance shares one bucket per key.
//
// KEYS[1] bucket hash
// ARGV[1] now (ms), ARGV[2] capacity, ARGV[3] refill rate, ARGV[4] refill interval (ms),
// ARGV[5] tokens to consume, ARGV[6] ttl (ms)
var consumeScript = redis.NewScript(`
local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])

local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
	tokens = capacity
	last = now
end

local intervals = math.min(math.floor((now - last) / interval), math.floor(capacity / rate) + 1)
if intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	last = now
end

tokens = tokens - tonumber(ARGV[5])
redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill', last)
redis.call('PEXPIRE', KEYS[1], ARGV[6])
return {tokens, last}
`)

// RedisStore keeps buckets in Redis hashes that expire once they would be full again.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix namespaces bucket keys, default "ratelimit".
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(k string) string { return s.prefix + ":" + k }

// ConsumeTokens implements Store.
func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	interval := max(config.RefillInterval.Milliseconds(), 1)
	ttl := interval * int64(config.Capacity/config.RefillRate+1)

	res, err := consumeScript.Run(ctx, s.client, []string{s.key(key)},
		time.Now().UnixMilli(), config.Capacity, config.RefillRate, interval, tokens, ttl,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, errors.New("unexpected script reply"))
	}

	resetAt := time.UnixMilli(res[1]).Add(time.Duration(interval) * time.Millisecond)
	return int(res[0]), resetAt, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
