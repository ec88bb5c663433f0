package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RoomTypeLocker serializes availability-check-and-commit per room type.
// Lock takes every key in ascending id order so two callers locking
// overlapping sets cannot deadlock; the returned unlock releases all of them.
type RoomTypeLocker interface {
	Lock(ctx context.Context, roomTypeIDs ...uint) (unlock func(), err error)
}

func sortedUnique(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LocalLocker is an in-process keyed lock, enough for a single instance.
type LocalLocker struct {
	Timeout time.Duration

	mu    sync.Mutex
	slots map[uint]chan struct{}
}

func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{Timeout: timeout, slots: make(map[uint]chan struct{})}
}

func (l *LocalLocker) slot(id uint) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[id]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[id] = ch
	}
	return ch
}

func (l *LocalLocker) Lock(ctx context.Context, roomTypeIDs ...uint) (func(), error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	held := make([]chan struct{}, 0, len(roomTypeIDs))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range sortedUnique(roomTypeIDs) {
		ch := l.slot(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("%w: room type %d: %v", ErrLockTimeout, id, ctx.Err())
		}
	}
	return release, nil
}

// unlockScript deletes the key only while it still carries our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes across instances with SET NX PX leases.
type RedisLocker struct {
	Client     *redis.Client
	Prefix     string
	TTL        time.Duration
	Timeout    time.Duration
	RetryDelay time.Duration
}

func NewRedisLocker(client *redis.Client, timeout time.Duration) *RedisLocker {
	return &RedisLocker{
		Client:     client,
		Prefix:     "hotel:lock:room-type:",
		TTL:        30 * time.Second,
		Timeout:    timeout,
		RetryDelay: 25 * time.Millisecond,
	}
}

func (l *RedisLocker) key(id uint) string {
	return fmt.Sprintf("%s%d", l.Prefix, id)
}

func (l *RedisLocker) Lock(ctx context.Context, roomTypeIDs ...uint) (func(), error) {
	waitCtx := ctx
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	token := uuid.NewString()
	held := make([]string, 0, len(roomTypeIDs))
	release := func() {
		// the caller's context may already be done when unlocking
		bg := context.Background()
		for i := len(held) - 1; i >= 0; i-- {
			_ = unlockScript.Run(bg, l.Client, []string{held[i]}, token).Err()
		}
	}

	for _, id := range sortedUnique(roomTypeIDs) {
		key := l.key(id)
		for {
			ok, err := l.Client.SetNX(waitCtx, key, token, l.TTL).Result()
			if err != nil {
				release()
				if waitCtx.Err() != nil {
					return nil, fmt.Errorf("%w: room type %d: %v", ErrLockTimeout, id, waitCtx.Err())
				}
				return nil, fmt.Errorf("acquire lock %s: %w", key, err)
			}
			if ok {
				held = append(held, key)
				break
			}
			select {
			case <-time.After(l.RetryDelay):
			case <-waitCtx.Done():
				release()
				return nil, fmt.Errorf("%w: room type %d: %v", ErrLockTimeout, id, waitCtx.Err())
			}
		}
	}
	return release, nil
}
