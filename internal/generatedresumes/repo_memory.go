package generatedresumes

import (
	"context"
	"sort"
	"sync"
	"time"

	"resume-builder/internal/shared/util"
)

// MemoryRepo stores generated resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]GeneratedResume
	byUser map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]GeneratedResume),
		byUser: make(map[string][]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedResume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = time.Now().UTC()
	}
	resume.SelectedBlobIDs = nonNil(resume.SelectedBlobIDs)
	resume.PinnedBlobIDs = nonNil(resume.PinnedBlobIDs)
	resume.ExcludedBlobIDs = nonNil(resume.ExcludedBlobIDs)
	r.byID[resume.ID] = resume
	r.byUser[resume.UserID] = append(r.byUser[resume.UserID], resume.ID)
	return resume, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (GeneratedResume, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedResume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok || resume.UserID != userID {
		return GeneratedResume{}, ErrNotFound
	}
	return resume, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]GeneratedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f = f.normalize()

	r.mu.RLock()
	ids := r.byUser[userID]
	resumes := make([]GeneratedResume, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		resume := r.byID[ids[i]]
		if f.Query == "" || util.ContainsFold(resume.JobTitle, f.Query) {
			resumes = append(resumes, resume)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(resumes, func(i, j int) bool {
		return resumes[i].CreatedAt.After(resumes[j].CreatedAt)
	})
	if f.Offset >= len(resumes) {
		return []GeneratedResume{}, nil
	}
	end := len(resumes)
	if f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return resumes[f.Offset:end], nil
}

func (r *MemoryRepo) Count(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]), nil
}
