package service

import (
	"context"
	"sync"
	"time"
)

// keyedLocks provides per-key mutual exclusion with a bounded wait.
// The order coordinator uses one instance keyed by table ID (or by
// invoice name for take-away scopes) so that session-lookup-or-create
// and checkout serialize per table without a global lock.  A caller
// that cannot acquire its key within the wait budget gets ErrTableBusy
// instead of blocking indefinitely.
//
// Lock entries are created on first use and kept for the life of the
// process; the key space is bounded by the number of tables.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	wait  time.Duration
}

func newKeyedLocks(wait time.Duration) *keyedLocks {
	return &keyedLocks{locks: make(map[string]chan struct{}), wait: wait}
}

// acquire takes the lock for key, returning a release func.  It fails
// with ErrTableBusy after the wait budget and with ctx.Err() when the
// request is cancelled first.
func (l *keyedLocks) acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, ErrTableBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
