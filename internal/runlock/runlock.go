// Package runlock serializes pipeline runs on the same source. Overlapping
// triggers are rare but possible; the idempotent upserts make a race safe,
// the lock just avoids the wasted double work.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lock is a best-effort redis lease. A nil Lock (no redis configured) always
// grants acquisition, restoring the original lock-free behavior.
type Lock struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a lease manager with the given per-run TTL.
func New(client *redis.Client, ttl time.Duration) *Lock {
	if client == nil {
		return nil
	}
	return &Lock{client: client, ttl: ttl}
}

func lockKey(name string) string {
	return fmt.Sprintf("washpipe:run:%s", name)
}

// TryAcquire takes the lease for name. When granted, the returned release
// func drops it; release only deletes the lease it created.
func (l *Lock) TryAcquire(ctx context.Context, name string) (func(), bool, error) {
	if l == nil || l.client == nil {
		return func() {}, true, nil
	}

	key := lockKey(name)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("runlock: acquire %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Only drop our own lease; an expired one may belong to a newer run.
		current, err := l.client.Get(context.Background(), key).Result()
		if err != nil || current != token {
			return
		}
		l.client.Del(context.Background(), key)
	}
	return release, true, nil
}
