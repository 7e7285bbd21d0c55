package blobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	blob Blob
	seq  uint64
}

type MemoryRepo struct {
	mu    sync.RWMutex
	blobs map[string]memoryEntry
	seq   uint64
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{blobs: make(map[string]memoryEntry), now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepo) List(ctx context.Context, userID string, f Filter) ([]Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f = normalizePage(f)
	r.mu.RLock()
	var matched []memoryEntry
	for _, e := range r.blobs {
		if e.blob.UserID == userID && f.Matches(e.blob) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(matched)
	if f.Offset >= len(matched) {
		return []Blob{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Blob, 0, end-f.Offset)
	for _, e := range matched[f.Offset:end] {
		out = append(out, cloneBlob(e.blob))
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.blobs[id]
	if !ok || e.blob.UserID != userID {
		return Blob{}, ErrNotFound
	}
	return cloneBlob(e.blob), nil
}

func (r *MemoryRepo) ListByIDs(ctx context.Context, userID string, ids []string) ([]Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []memoryEntry
	for _, id := range ids {
		if e, ok := r.blobs[id]; ok && e.blob.UserID == userID {
			matched = append(matched, e)
		}
	}
	sortNewestFirst(matched)
	out := make([]Blob, 0, len(matched))
	for _, e := range matched {
		out = append(out, cloneBlob(e.blob))
	}
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, blob Blob) (Blob, error) {
	created, err := r.CreateMany(ctx, []Blob{blob})
	if err != nil {
		return Blob{}, err
	}
	return created[0], nil
}

func (r *MemoryRepo) CreateMany(ctx context.Context, items []Blob) ([]Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	out := make([]Blob, 0, len(items))
	for _, b := range items {
		b.CreatedAt = now
		b.UpdatedAt = now
		r.seq++
		r.blobs[b.ID] = memoryEntry{blob: cloneBlob(b), seq: r.seq}
		out = append(out, b)
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, blob Blob) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.blobs[blob.ID]
	if !ok || e.blob.UserID != blob.UserID {
		return Blob{}, ErrNotFound
	}
	blob.CreatedAt = e.blob.CreatedAt
	blob.UpdatedAt = r.now()
	e.blob = cloneBlob(blob)
	r.blobs[blob.ID] = e
	return blob, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.blobs[id]
	if !ok || e.blob.UserID != userID {
		return ErrNotFound
	}
	delete(r.blobs, id)
	return nil
}

func (r *MemoryRepo) Count(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.blobs {
		if e.blob.UserID == userID {
			n++
		}
	}
	return n, nil
}

func sortNewestFirst(entries []memoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].blob.CreatedAt.Equal(entries[j].blob.CreatedAt) {
			return entries[i].blob.CreatedAt.After(entries[j].blob.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})
}

func cloneBlob(b Blob) Blob {
	b.Tags = append([]string(nil), b.Tags...)
	return b
}
