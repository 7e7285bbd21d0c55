package blobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sqlx.DB
}

type blobRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Category    string         `db:"category"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Tags        pq.StringArray `db:"tags"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r blobRow) toBlob() Blob {
	return Blob{
		ID:          r.ID,
		UserID:      r.UserID,
		Category:    Category(r.Category),
		Title:       r.Title,
		Description: r.Description,
		Tags:        []string(r.Tags),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toBlobs(rows []blobRow) []Blob {
	out := make([]Blob, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toBlob())
	}
	return out
}

const blobColumns = `id, user_id, category, title, description, tags, created_at, updated_at`

const insertBlobQuery = `
INSERT INTO blobs (id, user_id, category, title, description, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING ` + blobColumns

func (r *PGRepo) List(ctx context.Context, userID string, f Filter) ([]Blob, error) {
	f = normalizePage(f)
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if f.Category != "" {
		args = append(args, string(f.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + blobColumns + ` FROM blobs WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	var rows []blobRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return toBlobs(rows), nil
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Blob, error) {
	const query = `SELECT ` + blobColumns + ` FROM blobs WHERE id = $1 AND user_id = $2`
	var row blobRow
	if err := r.DB.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Blob{}, ErrNotFound
		}
		return Blob{}, err
	}
	return row.toBlob(), nil
}

func (r *PGRepo) ListByIDs(ctx context.Context, userID string, ids []string) ([]Blob, error) {
	if len(ids) == 0 {
		return []Blob{}, nil
	}
	const query = `SELECT ` + blobColumns + ` FROM blobs WHERE user_id = $1 AND id::text = ANY($2) ORDER BY created_at DESC, id DESC`
	var rows []blobRow
	if err := r.DB.SelectContext(ctx, &rows, query, userID, pq.Array(ids)); err != nil {
		return nil, err
	}
	return toBlobs(rows), nil
}

func (r *PGRepo) Create(ctx context.Context, blob Blob) (Blob, error) {
	var row blobRow
	if err := r.DB.GetContext(ctx, &row, insertBlobQuery,
		blob.ID, blob.UserID, string(blob.Category), blob.Title, blob.Description, pq.Array(blob.Tags),
	); err != nil {
		return Blob{}, err
	}
	return row.toBlob(), nil
}

func (r *PGRepo) CreateMany(ctx context.Context, items []Blob) ([]Blob, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]Blob, 0, len(items))
	for _, blob := range items {
		var row blobRow
		if err := tx.GetContext(ctx, &row, insertBlobQuery,
			blob.ID, blob.UserID, string(blob.Category), blob.Title, blob.Description, pq.Array(blob.Tags),
		); err != nil {
			return nil, err
		}
		out = append(out, row.toBlob())
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) Update(ctx context.Context, blob Blob) (Blob, error) {
	const query = `
UPDATE blobs SET category = $3, title = $4, description = $5, tags = $6, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + blobColumns
	var row blobRow
	if err := r.DB.GetContext(ctx, &row, query,
		blob.ID, blob.UserID, string(blob.Category), blob.Title, blob.Description, pq.Array(blob.Tags),
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Blob{}, ErrNotFound
		}
		return Blob{}, err
	}
	return row.toBlob(), nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM blobs WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Count(ctx context.Context, userID string) (int, error) {
	const query = `SELECT count(*) FROM blobs WHERE user_id = $1`
	var n int
	if err := r.DB.GetContext(ctx, &n, query, userID); err != nil {
		return 0, err
	}
	return n, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
