package revoke

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is the Redis key prefix for per-user revoked sets.
const DefaultKeyPrefix = "invalid:"

const evictTimeout = 5 * time.Second

// Config tunes a [Store].
type Config struct {
	// KeyPrefix defaults to [DefaultKeyPrefix].
	KeyPrefix string
	// EvictionBuffer is the queue depth for background evictions. When the
	// queue is full new evictions are dropped and counted, never blocked on.
	EvictionBuffer int
}

// Store is the single source of truth for "is this pair identifier still
// trusted". It is safe for concurrent use; Close stops the eviction worker.
type Store struct {
	redis  redis.UniversalClient
	prefix string

	evictions chan eviction
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

type eviction struct {
	userID string
	pairID string
}

// NewStore returns a Store backed by client and starts its eviction worker.
func NewStore(client redis.UniversalClient, cfg Config) *Store {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.EvictionBuffer <= 0 {
		cfg.EvictionBuffer = 64
	}

	s := &Store{
		redis:     client,
		prefix:    cfg.KeyPrefix,
		evictions: make(chan eviction, cfg.EvictionBuffer),
		done:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Store) key(userID string) string {
	return s.prefix + userID
}

// Add marks pairID revoked for userID. It reports whether the set changed:
// false means the pair was already revoked, making Add idempotent.
func (s *Store) Add(ctx context.Context, userID, pairID string) (bool, error) {
	added, err := s.redis.SAdd(ctx, s.key(userID), pairID).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

// Contains reports current membership of pairID in userID's revoked set.
func (s *Store) Contains(ctx context.Context, userID, pairID string) (bool, error) {
	return s.redis.SIsMember(ctx, s.key(userID), pairID).Result()
}

// Remove deletes pairID from userID's revoked set.
func (s *Store) Remove(ctx context.Context, userID, pairID string) error {
	return s.redis.SRem(ctx, s.key(userID), pairID).Err()
}

// Evict queues removal of a stale member without blocking the caller. The
// removal is cleanup, not semantic revocation: it is only safe for pair ids
// whose tokens have already expired naturally.
func (s *Store) Evict(userID, pairID string) {
	if s == nil || s.closed.Load() {
		return
	}

	select {
	case s.evictions <- eviction{userID: userID, pairID: pairID}:
	case <-s.done:
	default:
		s.dropped.Add(1)
	}
}

// Dropped reports how many evictions were discarded because the queue was full.
func (s *Store) Dropped() uint64 {
	if s == nil {
		return 0
	}
	return s.dropped.Load()
}

func (s *Store) run() {
	defer s.wg.Done()

	for {
		select {
		case ev := <-s.evictions:
			s.evict(ev)
		case <-s.done:
			for {
				select {
				case ev := <-s.evictions:
					s.evict(ev)
				default:
					return
				}
			}
		}
	}
}

func (s *Store) evict(ev eviction) {
	ctx, cancel := context.WithTimeout(context.Background(), evictTimeout)
	defer cancel()

	if err := s.redis.SRem(ctx, s.key(ev.userID), ev.pairID).Err(); err != nil {
		log.Print("hiyauth: revoked set eviction failed")
	}
}

// Close stops the eviction worker after draining queued evictions. Further
// Evict calls become no-ops.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.wg.Wait()
	})
}
