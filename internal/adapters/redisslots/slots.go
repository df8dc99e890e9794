package redisslots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// acquireScript takes one slot from a sorted-set semaphore.
// KEYS[1] = slot set
// ARGV[1] = now (ms), ARGV[2] = lease (ms), ARGV[3] = capacity, ARGV[4] = holder
var acquireScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local lease = tonumber(ARGV[2])
local capacity = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, "-inf", now)
if redis.call("ZCARD", key) < capacity then
    redis.call("ZADD", key, now + lease, ARGV[4])
    redis.call("PEXPIRE", key, lease * 2)
    return 1
end
return 0
`)

// Slots is a browser-capacity counter shared by every replica. Holders that
// crash lose their slot once the lease runs out.
type Slots struct {
	client   *redis.Client
	key      string
	capacity int
	lease    time.Duration
	poll     time.Duration
}

type Options struct {
	Key      string
	Capacity int
	Lease    time.Duration
	Poll     time.Duration
}

func New(client *redis.Client, opts Options) *Slots {
	if opts.Key == "" {
		opts.Key = "ipwatch:browser_slots"
	}
	if opts.Capacity < 1 {
		opts.Capacity = 1
	}
	if opts.Lease <= 0 {
		// long enough for 3 navigation attempts, settle delay and the AI call
		opts.Lease = 5 * time.Minute
	}
	if opts.Poll <= 0 {
		opts.Poll = 250 * time.Millisecond
	}
	return &Slots{client: client, key: opts.Key, capacity: opts.Capacity, lease: opts.Lease, poll: opts.Poll}
}

func NewClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password})
}

// TryAcquire takes a slot if one is free and returns its holder token.
func (s *Slots) TryAcquire(ctx context.Context) (string, bool, error) {
	holder := uuid.NewString()
	now := time.Now().UnixMilli()
	res, err := acquireScript.Run(ctx, s.client, []string{s.key}, now, s.lease.Milliseconds(), s.capacity, holder).Int()
	if err != nil {
		return "", false, fmt.Errorf("redis slots: %w", err)
	}
	return holder, res == 1, nil
}

// Acquire blocks until a slot is free or ctx is done.
func (s *Slots) Acquire(ctx context.Context) (string, error) {
	t := time.NewTicker(s.poll)
	defer t.Stop()
	for {
		holder, ok, err := s.TryAcquire(ctx)
		if err != nil {
			return "", err
		}
		if ok {
			return holder, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
}

func (s *Slots) Release(ctx context.Context, holder string) error {
	if err := s.client.ZRem(ctx, s.key, holder).Err(); err != nil {
		return fmt.Errorf("redis slots release: %w", err)
	}
	return nil
}
