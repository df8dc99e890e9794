package redisslots

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlots(t *testing.T, capacity int) *Slots {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := NewClient(addr, "")
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	key := "ipwatch:test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })
	return New(client, Options{Key: key, Capacity: capacity, Lease: time.Minute, Poll: 10 * time.Millisecond})
}

func TestSlots_CapacityAndRelease(t *testing.T) {
	s := newTestSlots(t, 2)
	ctx := context.Background()

	a, ok, err := s.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = s.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = s.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "third holder must wait")

	require.NoError(t, s.Release(ctx, a))
	_, ok, err = s.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSlots_AcquireHonoursContext(t *testing.T) {
	s := newTestSlots(t, 1)
	_, err := s.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSlots_ExpiredLeaseIsReclaimed(t *testing.T) {
	s := newTestSlots(t, 1)
	s.lease = 20 * time.Millisecond
	_, ok, err := s.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok, err = s.TryAcquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}
