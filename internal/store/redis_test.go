package store

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/model"
)

// createTestRedis returns a backend on an in-process server, or on the
// server at AQUAFLOW_TEST_REDIS_ADDR when set.
func createTestRedis(t *testing.T) *RedisBackend {
	t.Helper()
	addr := os.Getenv("AQUAFLOW_TEST_REDIS_ADDR")
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	}
	b, err := OpenRedis(context.Background(), RedisOptions{Addr: addr, Prefix: "aquaflow-test:" + t.Name() + ":"})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = b.Delete(ctx, KeyDocument)
		_ = b.Delete(ctx, KeySession)
		_ = b.Delete(ctx, "k")
		b.Close()
	})
	return b
}

func TestRedisBackend_VersionedPut(t *testing.T) {
	b := createTestRedis(t)
	ctx := context.Background()

	_, _, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	v1, err := b.Put(ctx, "k", []byte("one"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	_, err = b.Put(ctx, "k", []byte("stale"), 0)
	require.ErrorIs(t, err, ErrConflict)

	v2, err := b.Put(ctx, "k", []byte("two"), v1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)

	v3, err := b.Put(ctx, "k", []byte("three"), AnyVersion)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v3)

	value, version, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "three", string(value))
	assert.Equal(t, v3, version)

	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))
	_, _, err = b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackend_LockBusy(t *testing.T) {
	mr := miniredis.RunT(t)
	b := NewRedisBackend(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	b.lockRetries = 1
	t.Cleanup(func() { b.Close() })

	// Another process holds the write lock.
	require.NoError(t, mr.Set(defaultRedisPrefix+"lock:k", "held-by-another-writer"))

	ctx := context.Background()
	_, err := b.Put(ctx, "k", []byte("one"), 0)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "lock busy")
	assert.False(t, mr.Exists(defaultRedisPrefix+"k"))

	mr.Del(defaultRedisPrefix + "lock:k")
	version, err := b.Put(ctx, "k", []byte("one"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.False(t, mr.Exists(defaultRedisPrefix+"lock:k"))
}

func TestRedisBackend_Store(t *testing.T) {
	b := createTestRedis(t)
	ctx := context.Background()
	s := New(b)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Customers, 6)
	assert.Equal(t, int64(1), s.Version())

	_, err = s.Mutate(ctx, func(d *model.Document) error {
		d.Customers[0].Name = "Cafe Two"
		return nil
	})
	require.NoError(t, err)

	reopened := New(b)
	doc, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cafe Two", doc.Customers[0].Name)
	assert.Equal(t, int64(2), reopened.Version())

	_, err = reopened.Mutate(ctx, func(d *model.Document) error {
		d.Customers[0].Name = "Cafe Three"
		return nil
	})
	require.NoError(t, err)
	// s still holds version 2.
	_, err = s.Mutate(ctx, func(d *model.Document) error {
		d.Customers[0].Name = "Lost"
		return nil
	})
	require.ErrorIs(t, err, ErrConflict)
}
