package jobdescriptions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PGRepo struct {
	DB *sqlx.DB
}

func (r *PGRepo) Create(ctx context.Context, jd JobDescription) (JobDescription, error) {
	const query = `
INSERT INTO job_descriptions (id, user_id, title, description, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING id, user_id, title, description, created_at`
	var out JobDescription
	if err := r.DB.GetContext(ctx, &out, query, jd.ID, jd.UserID, jd.Title, jd.Description); err != nil {
		return JobDescription{}, err
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	const query = `
SELECT id, user_id, title, description, created_at
FROM job_descriptions
WHERE id = $1 AND user_id = $2`
	var out JobDescription
	if err := r.DB.GetContext(ctx, &out, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobDescription{}, ErrNotFound
		}
		return JobDescription{}, err
	}
	return out, nil
}

func (r *PGRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM job_descriptions WHERE user_id = $1`, userID)
	return n, err
}

var _ Repo = (*PGRepo)(nil)
