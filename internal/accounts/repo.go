package accounts

import "context"

type Repo interface {
	// Create inserts a user; a duplicate email returns ErrEmailTaken.
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
