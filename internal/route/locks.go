package route

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrGenerationInProgress means another generation request holds the
// per-draft lock. Surfaced to clients as a conflict, not a failure.
var ErrGenerationInProgress = errors.New("generation already in progress for this draft")

// Locker serializes generation per draft id so two concurrent requests
// can never interleave point replacement.
type Locker interface {
	// Acquire returns a release func, or ErrGenerationInProgress when the
	// draft is already being generated.
	Acquire(ctx context.Context, draftID string) (func(), error)
}

// RedisLocker coordinates across processes with a SET NX key per draft.
// Redis being down degrades to no cross-process serialization rather
// than failing generation.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, ttl: 60 * time.Second}
}

func (l *RedisLocker) Acquire(ctx context.Context, draftID string) (func(), error) {
	key := "routes:generate:" + draftID
	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		log.Printf("generation lock unavailable for draft %s: %v", draftID, err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrGenerationInProgress
	}
	return func() {
		if err := l.client.Del(context.Background(), key).Err(); err != nil {
			log.Printf("generation lock release failed for draft %s: %v", draftID, err)
		}
	}, nil
}

// MemoryLocker serializes within a single process. Used when redis is
// not configured, and in tests.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: map[string]struct{}{}}
}

func (l *MemoryLocker) Acquire(_ context.Context, draftID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[draftID]; busy {
		return nil, ErrGenerationInProgress
	}
	l.held[draftID] = struct{}{}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, draftID)
	}, nil
}
