package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PGRepo struct {
	DB *sqlx.DB
}

const profileColumns = `user_id, onboarding_complete, created_at, updated_at`

func (r *PGRepo) Ensure(ctx context.Context, userID string) (Profile, error) {
	const query = `
INSERT INTO profiles (user_id, onboarding_complete, created_at, updated_at)
VALUES ($1, false, now(), now())
ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, userID); err != nil {
		return Profile{}, err
	}
	return r.Get(ctx, userID)
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	var p Profile
	if err := r.DB.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PGRepo) MarkOnboardingComplete(ctx context.Context, userID string) (Profile, error) {
	const query = `
UPDATE profiles SET onboarding_complete = true, updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns
	var p Profile
	if err := r.DB.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}
