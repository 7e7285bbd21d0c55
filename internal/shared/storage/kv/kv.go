// Package kv holds short-lived state: sessions, wizard drafts, idempotency keys and locks.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrLocked   = errors.New("kv: key is locked")
)

// Store is a byte-oriented key/value store with per-key TTLs.
// A zero ttl means the key does not expire.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	// CompareAndDelete removes key only while it still holds value.
	CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error)
	// CompareAndExpire resets the TTL of key only while it still holds value.
	CompareAndExpire(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

// GetJSON decodes the value at key into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes value and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}

// Locker serializes read-modify-write cycles on a key across requests and processes.
// A held lock is renewed every TTL/3 until released, so TTL only bounds how long
// a crashed holder keeps it.
type Locker struct {
	Store Store
	TTL   time.Duration
	// Poll is the wait between acquisition attempts.
	Poll time.Duration
}

// NewLocker returns a Locker with default timings.
func NewLocker(s Store) *Locker {
	return &Locker{Store: s, TTL: 10 * time.Second, Poll: 25 * time.Millisecond}
}

// Lock blocks until key is acquired or ctx is done. The returned func releases it.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := []byte(uuid.NewString())
	lockKey := "lock:" + key
	for {
		ok, err := l.Store.SetNX(ctx, lockKey, token, l.TTL)
		if err != nil {
			return nil, err
		}
		if ok {
			stop := make(chan struct{})
			done := make(chan struct{})
			go l.renew(lockKey, token, stop, done)
			var once sync.Once
			return func() {
				once.Do(func() {
					close(stop)
					<-done
					// release must survive a canceled request context
					rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_, _ = l.Store.CompareAndDelete(rctx, lockKey, token)
				})
			}, nil
		}
		t := time.NewTimer(l.Poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("%w: %s: %w", ErrLocked, key, ctx.Err())
		case <-t.C:
		}
	}
}

// renew extends the lease until stop is closed or the lease is lost.
func (l *Locker) renew(lockKey string, token []byte, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := l.TTL / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(context.Background(), interval)
			held, err := l.Store.CompareAndExpire(rctx, lockKey, token, l.TTL)
			cancel()
			if err != nil {
				telemetry.Warn("kv.lock_renew_failed", map[string]any{"key": lockKey, "error": err.Error()})
				continue
			}
			if !held {
				telemetry.Warn("kv.lock_lost", map[string]any{"key": lockKey})
				return
			}
		}
	}
}

// WithLock runs fn while holding key.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	unlock, err := l.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ctx)
}
