package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/worldsearch/internal/db"
)

// releaseScript deletes the key only while it still carries the caller's token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// TryLock sets key to token if absent, expiring after ttl.
// Returns db.ErrLockHeld when another owner holds the key.
func (s *Store) TryLock(ctx context.Context, key, token string, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(token).Nx().PxMilliseconds(ttl.Milliseconds()).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrLockHeld
		}
		return &db.Error{Op: db.OpLock, Err: err}
	}
	return nil
}

// Unlock releases key if it is still owned by token.
// An expired or stolen lock is not an error: there is nothing left to release.
func (s *Store) Unlock(ctx context.Context, key, token string) error {
	cmd := s.b().Eval().Script(releaseScript).Numkeys(1).Key(key).Arg(token).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpUnlock, Err: err}
	}
	return nil
}
