package bullets

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items []Version
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) CreateMany(ctx context.Context, items []Version) ([]Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	out := make([]Version, 0, len(items))
	for _, v := range items {
		v.CreatedAt = now
		r.items = append(r.items, v)
		out = append(out, v)
	}
	return out, nil
}

func (r *MemoryRepo) ListByBlob(ctx context.Context, userID, blobID string) ([]Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Version{}
	for i := len(r.items) - 1; i >= 0; i-- {
		v := r.items[i]
		if v.UserID == userID && v.BlobID == blobID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, v := range r.items {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}
