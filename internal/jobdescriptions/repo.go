package jobdescriptions

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job description not found")

type Repo interface {
	Create(ctx context.Context, jd JobDescription) (JobDescription, error)
	Get(ctx context.Context, userID, id string) (JobDescription, error)
	Count(ctx context.Context, userID string) (int, error)
}
