package blobs

import "context"

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Repo interface {
	// List returns the owner's blobs matching f, newest first.
	List(ctx context.Context, userID string, f Filter) ([]Blob, error)
	Get(ctx context.Context, userID, id string) (Blob, error)
	// ListByIDs returns the owner's blobs among ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, userID string, ids []string) ([]Blob, error)
	Create(ctx context.Context, blob Blob) (Blob, error)
	// CreateMany inserts all blobs or none.
	CreateMany(ctx context.Context, items []Blob) ([]Blob, error)
	Update(ctx context.Context, blob Blob) (Blob, error)
	Delete(ctx context.Context, userID, id string) error
	Count(ctx context.Context, userID string) (int, error)
}

func normalizePage(f Filter) Filter {
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
