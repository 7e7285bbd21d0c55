package bullets

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type PGRepo struct {
	DB *sqlx.DB
}

const insertVersionQuery = `
INSERT INTO bullet_versions (id, user_id, blob_id, text, job_context, rating, created_at)
VALUES (:id, :user_id, :blob_id, :text, :job_context, :rating, now())`

func (r *PGRepo) CreateMany(ctx context.Context, items []Version) ([]Version, error) {
	if len(items) == 0 {
		return []Version{}, nil
	}
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	for _, v := range items {
		if _, err := tx.NamedExecContext(ctx, insertVersionQuery, v); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepo) ListByBlob(ctx context.Context, userID, blobID string) ([]Version, error) {
	const query = `
SELECT id, user_id, blob_id, text, job_context, rating, created_at
FROM bullet_versions
WHERE user_id = $1 AND blob_id = $2
ORDER BY created_at DESC`
	out := []Version{}
	if err := r.DB.SelectContext(ctx, &out, query, userID, blobID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM bullet_versions WHERE user_id = $1`, userID)
	return n, err
}

var _ Repo = (*PGRepo)(nil)
