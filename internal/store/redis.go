package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	fieldValue   = "value"
	fieldVersion = "version"

	defaultRedisPrefix = "aquaflow:"
	lockTTL            = 5 * time.Second
	lockRetryBackoff   = 50 * time.Millisecond
	lockRetryLimit     = 40
)

// RedisOptions configures RedisBackend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key. Defaults to "aquaflow:".
	Prefix string
}

// RedisBackend stores each key as a hash {value, version}.
// Writes hold a redislock lock on the key so the version check and the
// write are atomic across processes.
type RedisBackend struct {
	rdb    redis.UniversalClient
	locker *redislock.Client
	prefix string

	// lockRetries bounds the attempts to obtain a busy write lock.
	lockRetries int
}

// OpenRedis connects to Redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisBackend(rdb, opts.Prefix), nil
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(rdb redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisBackend{
		rdb:         rdb,
		locker:      redislock.New(rdb),
		prefix:      prefix,
		lockRetries: lockRetryLimit,
	}
}

func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, int64, error) {
	fields, err := b.rdb.HGetAll(ctx, b.prefix+key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, 0, ErrNotFound
	}
	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: bad version %q: %w", key, fields[fieldVersion], err)
	}
	return []byte(fields[fieldValue]), version, nil
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	lock, err := b.locker.Obtain(ctx, b.prefix+"lock:"+key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryBackoff), b.lockRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return 0, fmt.Errorf("put %s: lock busy: %w", key, ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("put %s: obtain lock: %w", key, err)
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	var current int64
	raw, err := b.rdb.HGet(ctx, b.prefix+key, fieldVersion).Result()
	switch {
	case errors.Is(err, redis.Nil):
		current = 0
	case err != nil:
		return 0, fmt.Errorf("put %s: read version: %w", key, err)
	default:
		current, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("put %s: bad version %q: %w", key, raw, err)
		}
	}

	if expected != AnyVersion && expected != current {
		return 0, ErrConflict
	}

	next := current + 1
	if err := b.rdb.HSet(ctx, b.prefix+key, fieldValue, value, fieldVersion, next).Err(); err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}
	return next, nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, b.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
