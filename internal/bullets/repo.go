package bullets

import "context"

// Repo has no update or delete: history is never rewritten.
type Repo interface {
	CreateMany(ctx context.Context, items []Version) ([]Version, error)
	// ListByBlob returns versions newest first.
	ListByBlob(ctx context.Context, userID, blobID string) ([]Version, error)
	Count(ctx context.Context, userID string) (int, error)
}
