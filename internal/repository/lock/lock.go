// Package lock serializes bulk maintenance operations.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/domain"
)

// KeyPrefix namespaces lock keys in a shared Redis.
const KeyPrefix = "worldsearch:lock:"

// Release gives a held lock back.
type Release func(ctx context.Context) error

// Local is an in-process non-blocking lock. Sufficient for a single replica.
type Local struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]bool)}
}

// Acquire takes the named lock or fails immediately with domain.ErrMaintenanceInProgress.
func (l *Local) Acquire(_ context.Context, name string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[name] {
		return nil, domain.ErrMaintenanceInProgress
	}
	l.held[name] = true

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
		return nil
	}, nil
}

// store is the consumer interface for distributed locking (ISP).
type store interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) error
	Unlock(ctx context.Context, key, token string) error
}

// Redis is a lock shared by every replica pointing at the same Redis.
// The TTL bounds how long a crashed holder blocks others.
type Redis struct {
	store store
	ttl   time.Duration
}

// NewRedis creates a Redis-backed locker.
func NewRedis(s store, ttl time.Duration) *Redis {
	return &Redis{store: s, ttl: ttl}
}

// Acquire takes the named lock or fails immediately with domain.ErrMaintenanceInProgress.
func (r *Redis) Acquire(ctx context.Context, name string) (Release, error) {
	key := KeyPrefix + name
	token := uuid.NewString()

	if err := r.store.TryLock(ctx, key, token, r.ttl); err != nil {
		if errors.Is(err, db.ErrLockHeld) {
			return nil, domain.ErrMaintenanceInProgress
		}
		return nil, fmt.Errorf("acquire %s: %w", name, err)
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			err = r.store.Unlock(ctx, key, token)
		})
		return err
	}, nil
}
