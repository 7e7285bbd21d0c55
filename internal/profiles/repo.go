package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

type Repo interface {
	// Ensure creates the profile if it does not exist and returns the stored row.
	Ensure(ctx context.Context, userID string) (Profile, error)
	Get(ctx context.Context, userID string) (Profile, error)
	MarkOnboardingComplete(ctx context.Context, userID string) (Profile, error)
}
