package generatedresumes

import "context"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListFilter narrows a listing. Query matches the job description title.
type ListFilter struct {
	Query  string
	Limit  int
	Offset int
}

func (f ListFilter) normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Repo defines persistence operations for generated resumes.
type Repo interface {
	Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error)
	GetByID(ctx context.Context, userID, id string) (GeneratedResume, error)
	// ListByUser returns resumes newest first.
	ListByUser(ctx context.Context, userID string, f ListFilter) ([]GeneratedResume, error)
	Count(ctx context.Context, userID string) (int, error)
}
