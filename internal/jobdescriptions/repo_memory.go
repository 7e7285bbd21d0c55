package jobdescriptions

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]JobDescription
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]JobDescription)}
}

func (r *MemoryRepo) Create(ctx context.Context, jd JobDescription) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if jd.CreatedAt.IsZero() {
		jd.CreatedAt = time.Now().UTC()
	}
	r.byID[jd.ID] = jd
	return jd, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	jd, ok := r.byID[id]
	if !ok || jd.UserID != userID {
		return JobDescription{}, ErrNotFound
	}
	return jd, nil
}

func (r *MemoryRepo) Count(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, jd := range r.byID {
		if jd.UserID == userID {
			n++
		}
	}
	return n, nil
}
