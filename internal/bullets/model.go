package bullets

import "time"

// Version is one generated bullet for a blob. Versions are append-only.
type Version struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	BlobID     string    `json:"blobId" db:"blob_id"`
	Text       string    `json:"text" db:"text"`
	JobContext *string   `json:"jobContext,omitempty" db:"job_context"`
	Rating     *int      `json:"rating,omitempty" db:"rating"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
