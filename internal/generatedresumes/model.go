package generatedresumes

import (
	"time"

	"github.com/lib/pq"
)

// GeneratedResume records one rendered document and the blob choices behind it.
type GeneratedResume struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	JobDescriptionID *string   `json:"jobDescriptionId,omitempty"`
	JobTitle         string    `json:"jobTitle,omitempty"`
	SelectedBlobIDs  []string  `json:"selectedBlobIds"`
	PinnedBlobIDs    []string  `json:"pinnedBlobIds"`
	ExcludedBlobIDs  []string  `json:"excludedBlobIds"`
	ModelProvider    *string   `json:"modelProvider,omitempty"`
	ModelName        *string   `json:"modelName,omitempty"`
	FinalPDFURL      *string   `json:"finalPdfUrl,omitempty"`
	StorageKey       string    `json:"storageKey,omitempty"`
	MimeType         string    `json:"mimeType,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type resumeRow struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	JobDescriptionID *string        `db:"job_description_id"`
	JobTitle         *string        `db:"job_title"`
	SelectedBlobIDs  pq.StringArray `db:"selected_blob_ids"`
	PinnedBlobIDs    pq.StringArray `db:"pinned_blob_ids"`
	ExcludedBlobIDs  pq.StringArray `db:"excluded_blob_ids"`
	ModelProvider    *string        `db:"model_provider"`
	ModelName        *string        `db:"model_name"`
	FinalPDFURL      *string        `db:"final_pdf_url"`
	StorageKey       *string        `db:"storage_key"`
	MimeType         *string        `db:"mime_type"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (r resumeRow) toResume() GeneratedResume {
	out := GeneratedResume{
		ID:               r.ID,
		UserID:           r.UserID,
		JobDescriptionID: r.JobDescriptionID,
		SelectedBlobIDs:  nonNil(r.SelectedBlobIDs),
		PinnedBlobIDs:    nonNil(r.PinnedBlobIDs),
		ExcludedBlobIDs:  nonNil(r.ExcludedBlobIDs),
		ModelProvider:    r.ModelProvider,
		ModelName:        r.ModelName,
		FinalPDFURL:      r.FinalPDFURL,
		CreatedAt:        r.CreatedAt,
	}
	if r.JobTitle != nil {
		out.JobTitle = *r.JobTitle
	}
	if r.StorageKey != nil {
		out.StorageKey = *r.StorageKey
	}
	if r.MimeType != nil {
		out.MimeType = *r.MimeType
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
