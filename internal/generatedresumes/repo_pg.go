package generatedresumes

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sqlx.DB
}

const selectResume = `
SELECT gr.id, gr.user_id, gr.job_description_id, jd.title AS job_title,
       gr.selected_blob_ids, gr.pinned_blob_ids, gr.excluded_blob_ids,
       gr.model_provider, gr.model_name, gr.final_pdf_url, gr.storage_key, gr.mime_type, gr.created_at
FROM generated_resumes gr
LEFT JOIN job_descriptions jd ON jd.id = gr.job_description_id AND jd.user_id = gr.user_id`

func (r *PGRepo) Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error) {
	const query = `
INSERT INTO generated_resumes (
    id, user_id, job_description_id, selected_blob_ids, pinned_blob_ids, excluded_blob_ids,
    model_provider, model_name, final_pdf_url, storage_key, mime_type, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
RETURNING created_at`
	err := r.DB.GetContext(ctx, &resume.CreatedAt, query,
		resume.ID,
		resume.UserID,
		resume.JobDescriptionID,
		pq.Array(nonNil(resume.SelectedBlobIDs)),
		pq.Array(nonNil(resume.PinnedBlobIDs)),
		pq.Array(nonNil(resume.ExcludedBlobIDs)),
		resume.ModelProvider,
		resume.ModelName,
		resume.FinalPDFURL,
		resume.StorageKey,
		resume.MimeType,
	)
	if err != nil {
		return GeneratedResume{}, err
	}
	return resume, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (GeneratedResume, error) {
	query := selectResume + `
WHERE gr.id = $1 AND gr.user_id = $2`
	var row resumeRow
	if err := r.DB.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GeneratedResume{}, ErrNotFound
		}
		return GeneratedResume{}, err
	}
	return row.toResume(), nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]GeneratedResume, error) {
	f = f.normalize()
	query := selectResume + `
WHERE gr.user_id = $1 AND ($2 = '' OR jd.title ILIKE '%' || $2 || '%')
ORDER BY gr.created_at DESC
LIMIT $3 OFFSET $4`

	var rows []resumeRow
	if err := r.DB.SelectContext(ctx, &rows, query, userID, escapeLike(f.Query), f.Limit, f.Offset); err != nil {
		return nil, err
	}
	out := make([]GeneratedResume, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toResume())
	}
	return out, nil
}

func (r *PGRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM generated_resumes WHERE user_id = $1`, userID)
	return n, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
}

var _ Repo = (*PGRepo)(nil)
